package services

import (
	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/rules/duplicate"
	"github.com/custodia-labs/hygiene/internal/rules/email"
	"github.com/custodia-labs/hygiene/internal/rules/orphan"
	"github.com/custodia-labs/hygiene/internal/rules/phone"
)

// BuiltinEvaluators returns the built-in detection rules configured from
// settings. Adding a rule means adding it here.
func BuiltinEvaluators(settings domain.ScanSettings) []driven.Evaluator {
	var phoneOpts []phone.Option
	if settings.PhoneRegion != "" {
		phoneOpts = append(phoneOpts, phone.WithRegion(settings.PhoneRegion))
	}
	return []driven.Evaluator{
		duplicate.New(),
		email.New(),
		phone.New(phoneOpts...),
		orphan.New(),
	}
}
