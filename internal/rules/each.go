package rules

import (
	"strings"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// Each calls fn for every well-formed record of type want.
// Records without an ID or of another type are skipped. A panic raised
// while handling one record skips only that record.
// It returns the number of skipped records.
func Each(rule string, records []domain.SourceRecord, want domain.ObjectType, fn func(domain.SourceRecord)) int {
	skipped := 0
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" || r.ObjectType != want {
			logger.Warn("%s: skipping malformed %s record %q", rule, want, r.ID)
			skipped++
			continue
		}
		if !safely(rule, r, fn) {
			skipped++
		}
	}
	return skipped
}

func safely(rule string, r domain.SourceRecord, fn func(domain.SourceRecord)) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("%s: skipping record %s: %v", rule, r.ID, p)
			ok = false
		}
	}()
	fn(r)
	return true
}

// Attrs builds a Signal attribute map from key/value pairs.
func Attrs(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
