// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The detection pipeline is:
//
//	RecordSource -> Evaluator -> SeverityClassifier -> Reconciler -> IssueStore
//
// ScanOrchestrator drives one pass of it; IssueService is the read and
// status-mutation surface over the resulting ledger.
package services
