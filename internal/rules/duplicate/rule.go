// Package duplicate detects Accounts that share a normalised name and
// contact point.
package duplicate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/rules"
)

// Ensure Rule implements the interface.
var _ driven.Evaluator = (*Rule)(nil)

// Rule clusters Accounts by normalised duplicate key.
type Rule struct{}

// New creates a new duplicate matcher.
func New() *Rule {
	return &Rule{}
}

// Name identifies the rule.
func (r *Rule) Name() string {
	return "duplicate"
}

// IssueType returns the keyspace of this rule's findings.
func (r *Rule) IssueType() domain.IssueType {
	return domain.IssueDuplicate
}

// Requirements declares the Account fields the rule reads.
func (r *Rule) Requirements() []domain.SnapshotRequest {
	return []domain.SnapshotRequest{{
		ObjectType: domain.ObjectAccount,
		Fields: domain.FieldSet{
			domain.FieldID, domain.FieldOwner, domain.FieldName, domain.FieldPhone, domain.FieldWebsite,
		},
	}}
}

type member struct {
	record  domain.SourceRecord
	phone   string
	website string
}

// Evaluate emits one finding per member of every cluster of two or more
// Accounts. Output order depends only on keys and record IDs.
func (r *Rule) Evaluate(snapshot domain.Snapshot) []domain.Finding {
	clusters := make(map[string][]member)
	rules.Each(r.Name(), snapshot.Records(domain.ObjectAccount), domain.ObjectAccount, func(rec domain.SourceRecord) {
		key, ok := Key(rec)
		if !ok {
			return
		}
		clusters[key] = append(clusters[key], member{
			record:  rec,
			phone:   NormalizeContact(rec.Phone),
			website: NormalizeWebsite(rec.Website),
		})
	})

	keys := make([]string, 0, len(clusters))
	for k, members := range clusters {
		if len(members) >= 2 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var findings []domain.Finding
	for _, key := range keys {
		members := clusters[key]
		sort.Slice(members, func(i, j int) bool { return members[i].record.ID < members[j].record.ID })

		sev := domain.SeverityMedium
		reason := "name_and_contact"
		if len(members) >= 3 {
			sev = domain.SeverityHigh
			reason = "large_cluster"
		} else if phoneAndWebsiteMatch(members) {
			sev = domain.SeverityHigh
			reason = "phone_and_website"
		}

		for i, m := range members {
			findings = append(findings, domain.Finding{
				IssueType:   domain.IssueDuplicate,
				RecordID:    m.record.ID,
				ObjectType:  domain.ObjectAccount,
				RecordOwner: m.record.Owner,
				Description: describe(members, i),
				Signal: domain.Signal{
					Severity:   sev,
					Reason:     reason,
					Attributes: rules.Attrs("cluster_size", strconv.Itoa(len(members)), "key", key),
				},
			})
		}
	}
	return findings
}

func phoneAndWebsiteMatch(members []member) bool {
	first := members[0]
	if first.phone == "" || first.website == "" {
		return false
	}
	for _, m := range members[1:] {
		if m.phone != first.phone || m.website != first.website {
			return false
		}
	}
	return true
}

func describe(members []member, self int) string {
	others := make([]string, 0, len(members)-1)
	for i, m := range members {
		if i == self {
			continue
		}
		others = append(others, fmt.Sprintf("%s (%s)", strings.TrimSpace(m.record.Name), m.record.ID))
	}
	return "Possible duplicate of " + strings.Join(others, ", ")
}

// Key builds the duplicate key for an Account: the normalised name, a pipe,
// and the normalised phone, or the website when the phone is empty.
// ok is false when the name or both contact points are empty.
func Key(rec domain.SourceRecord) (key string, ok bool) {
	name := NormalizeName(rec.Name)
	if name == "" {
		return "", false
	}
	contact := NormalizeContact(rec.Phone)
	if contact == "" {
		contact = NormalizeWebsite(rec.Website)
	}
	if contact == "" {
		return "", false
	}
	return name + "|" + contact, true
}

// NormalizeName lower-cases, drops punctuation, trims and collapses whitespace.
func NormalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeContact lower-cases and keeps only letters and digits.
func NormalizeContact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeWebsite drops the scheme and a leading "www." before
// normalising like a phone number.
func NormalizeWebsite(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")
	return NormalizeContact(s)
}
