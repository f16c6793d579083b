package domain

// SeverityRule overrides the severity of findings matching Condition.
// Condition is an expression over the finding's issue type, object type,
// proposed severity, record id, owner, description and rule attributes.
type SeverityRule struct {
	ID        string
	Condition string
	Severity  Severity
}
