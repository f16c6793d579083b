// Package phone validates Account, Contact and Lead phone numbers.
package phone

import (
	"strings"
	"unicode"

	"github.com/ttacon/libphonenumber"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/rules"
)

// Ensure Rule implements the interface.
var _ driven.Evaluator = (*Rule)(nil)

const (
	minDigits = 7
	maxDigits = 15
)

// blacklist holds well-known placeholder numbers, digits only.
var blacklist = map[string]struct{}{
	"5555555555": {},
	"5551212":    {},
	"5550100":    {},
	"8675309":    {},
	"1231231234": {},
	"1234512345": {},
}

var scannedTypes = []domain.ObjectType{domain.ObjectAccount, domain.ObjectContact, domain.ObjectLead}

// Rule checks phone numbers for letters, length and fake patterns.
type Rule struct {
	region string
}

// Option configures a Rule.
type Option func(*Rule)

// WithRegion enables a Low-severity check that the number is valid for
// the given ISO 3166 region, e.g. "US".
func WithRegion(region string) Option {
	return func(r *Rule) {
		r.region = strings.ToUpper(strings.TrimSpace(region))
	}
}

// New creates a new phone validator.
func New(opts ...Option) *Rule {
	r := &Rule{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name identifies the rule.
func (r *Rule) Name() string {
	return "phone"
}

// IssueType returns the keyspace of this rule's findings.
func (r *Rule) IssueType() domain.IssueType {
	return domain.IssueInvalidPhone
}

// Requirements declares the fields the rule reads.
func (r *Rule) Requirements() []domain.SnapshotRequest {
	fields := domain.FieldSet{domain.FieldID, domain.FieldOwner, domain.FieldPhone}
	reqs := make([]domain.SnapshotRequest, 0, len(scannedTypes))
	for _, ot := range scannedTypes {
		reqs = append(reqs, domain.SnapshotRequest{ObjectType: ot, Fields: fields})
	}
	return reqs
}

// Evaluate checks every non-empty phone number.
func (r *Rule) Evaluate(snapshot domain.Snapshot) []domain.Finding {
	var findings []domain.Finding
	for _, ot := range scannedTypes {
		rules.Each(r.Name(), snapshot.Records(ot), ot, func(rec domain.SourceRecord) {
			raw := strings.TrimSpace(rec.Phone)
			if raw == "" {
				return
			}
			desc, signal, ok := r.Check(raw)
			if !ok {
				return
			}
			findings = append(findings, domain.Finding{
				IssueType:   domain.IssueInvalidPhone,
				RecordID:    rec.ID,
				ObjectType:  ot,
				RecordOwner: rec.Owner,
				Description: desc + ": " + raw,
				Signal:      signal,
			})
		})
	}
	return findings
}

// Check validates one number. The first failing check wins.
// ok is true when the number has a defect.
func (r *Rule) Check(raw string) (desc string, signal domain.Signal, ok bool) {
	if strings.IndexFunc(raw, unicode.IsLetter) >= 0 {
		return "Contains letters", domain.Signal{Severity: domain.SeverityHigh, Reason: "letters"}, true
	}

	digits := Digits(raw)
	if len(digits) < minDigits || len(digits) > maxDigits {
		return "Invalid length", domain.Signal{Severity: domain.SeverityHigh, Reason: "length"}, true
	}

	if pattern := fakePattern(digits); pattern != "" {
		return "Suspicious/fake number", domain.Signal{
			Severity:   domain.SeverityMedium,
			Reason:     "fake",
			Attributes: rules.Attrs("pattern", pattern),
		}, true
	}

	if r.region != "" && !validForRegion(raw, r.region) {
		return "Not a valid number for region " + r.region, domain.Signal{
			Severity:   domain.SeverityLow,
			Reason:     "region",
			Attributes: rules.Attrs("region", r.region),
		}, true
	}
	return "", domain.Signal{}, false
}

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func fakePattern(digits string) string {
	if _, found := blacklist[digits]; found {
		return "blacklist"
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return "repeated"
	}
	if sequential(digits, ascendingRuns) {
		return "ascending"
	}
	if sequential(digits, descendingRuns) {
		return "descending"
	}
	return ""
}

// Keypad runs. Zero may only follow 9 (or precede it) at the end of the
// run, so 1234567890 is sequential but 7890123456 is not.
var (
	ascendingRuns  = []string{"0123456789", "1234567890"}
	descendingRuns = []string{"9876543210", "0987654321"}
)

// sequential reports whether digits is a prefix of one of runs.
func sequential(digits string, runs []string) bool {
	for _, run := range runs {
		if strings.HasPrefix(run, digits) {
			return true
		}
	}
	return false
}

func validForRegion(raw, region string) bool {
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}
