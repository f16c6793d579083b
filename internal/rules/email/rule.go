// Package email validates Contact and Lead email addresses.
package email

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/rules"
)

// Ensure Rule implements the interface.
var _ driven.Evaluator = (*Rule)(nil)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// typoDomains maps known misspellings to the intended domain.
// Matching is exact; there is no fuzzy lookup.
var typoDomains = map[string]string{
	"gmial.com":    "gmail.com",
	"gmai.com":     "gmail.com",
	"gamil.com":    "gmail.com",
	"gnail.com":    "gmail.com",
	"gmaill.com":   "gmail.com",
	"gmail.co":     "gmail.com",
	"gmail.con":    "gmail.com",
	"yahooo.com":   "yahoo.com",
	"yaho.com":     "yahoo.com",
	"yhoo.com":     "yahoo.com",
	"yahoo.co":     "yahoo.com",
	"yahoo.con":    "yahoo.com",
	"hotmial.com":  "hotmail.com",
	"hotmai.com":   "hotmail.com",
	"hotmil.com":   "hotmail.com",
	"hotmaill.com": "hotmail.com",
	"hotmail.co":   "hotmail.com",
	"hotmail.con":  "hotmail.com",
	"outlok.com":   "outlook.com",
	"outllok.com":  "outlook.com",
	"outlook.co":   "outlook.com",
	"outlook.con":  "outlook.com",
	"iclod.com":    "icloud.com",
	"icoud.com":    "icloud.com",
	"icloud.co":    "icloud.com",
}

// Rule checks email syntax, then known domain typos.
type Rule struct{}

// New creates a new email validator.
func New() *Rule {
	return &Rule{}
}

// Name identifies the rule.
func (r *Rule) Name() string {
	return "email"
}

// IssueType returns the keyspace of this rule's findings.
func (r *Rule) IssueType() domain.IssueType {
	return domain.IssueInvalidEmail
}

// Requirements declares the Contact and Lead fields the rule reads.
func (r *Rule) Requirements() []domain.SnapshotRequest {
	fields := domain.FieldSet{domain.FieldID, domain.FieldOwner, domain.FieldEmail}
	return []domain.SnapshotRequest{
		{ObjectType: domain.ObjectContact, Fields: fields},
		{ObjectType: domain.ObjectLead, Fields: fields},
	}
}

// Evaluate checks every non-empty email.
func (r *Rule) Evaluate(snapshot domain.Snapshot) []domain.Finding {
	var findings []domain.Finding
	for _, ot := range []domain.ObjectType{domain.ObjectContact, domain.ObjectLead} {
		rules.Each(r.Name(), snapshot.Records(ot), ot, func(rec domain.SourceRecord) {
			addr := strings.TrimSpace(rec.Email)
			if addr == "" {
				return
			}
			desc, signal, ok := Check(addr)
			if !ok {
				return
			}
			findings = append(findings, domain.Finding{
				IssueType:   domain.IssueInvalidEmail,
				RecordID:    rec.ID,
				ObjectType:  ot,
				RecordOwner: rec.Owner,
				Description: desc + ": " + addr,
				Signal:      signal,
			})
		})
	}
	return findings
}

// Check validates one address. ok is true when the address has a defect.
func Check(addr string) (desc string, signal domain.Signal, ok bool) {
	if !emailPattern.MatchString(addr) {
		return "Invalid format", domain.Signal{
			Severity: domain.SeverityHigh,
			Reason:   "format",
		}, true
	}

	at := strings.LastIndex(addr, "@")
	host := strings.ToLower(addr[at+1:])
	if correct, found := typoDomains[host]; found {
		return "Likely typo of " + correct, domain.Signal{
			Severity:   domain.SeverityMedium,
			Reason:     "typo",
			Attributes: rules.Attrs("domain", host, "suggested", correct),
		}, true
	}
	return "", domain.Signal{}, false
}
