// Package rules provides shared helpers for the detection rules.
// Each rule lives in its own subpackage and implements driven.Evaluator.
//
// Rules are registered with the ScanOrchestrator at startup.
package rules
