package file

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyRecordLimit       = "scan.record_limit"
	KeyTimeout           = "scan.timeout"
	KeyReopenFixed       = "scan.reopen_fixed"
	KeyPhoneRegion       = "rules.phone.region"
	KeySourceType        = "source.type"
	KeySourcePath        = "source.path"
	KeyRequestsPerSecond = "source.requests_per_second"
	KeyRedisAddr         = "lock.redis_addr"
	KeyLockTTL           = "lock.ttl"
	KeyScheduleEnabled   = "schedule.enabled"
	KeyScheduleInterval  = "schedule.interval"
	KeySeverityRules     = "severity.rules"
)

// rawSettings mirrors the config file before conversion to domain types.
// The key tag names the config key in validation messages.
type rawSettings struct {
	RecordLimit       int           `key:"scan.record_limit" validate:"min=1,max=10000"`
	Timeout           time.Duration `key:"scan.timeout" validate:"gt=0"`
	PhoneRegion       string        `key:"rules.phone.region" validate:"omitempty,len=2,alpha"`
	SourceType        string        `key:"source.type" validate:"oneof=sqlite yaml"`
	SourcePath        string        `key:"source.path" validate:"required_if=SourceType yaml"`
	RequestsPerSecond float64       `key:"source.requests_per_second" validate:"gte=0"`
	RedisAddr         string        `key:"lock.redis_addr" validate:"omitempty,hostname_port"`
	LockTTL           time.Duration `key:"lock.ttl" validate:"gt=0"`
	ScheduleInterval  time.Duration `key:"schedule.interval" validate:"gte=0"`
	Rules             []rawRule     `key:"severity.rules" validate:"dive"`
}

type rawRule struct {
	ID        string `key:"id" validate:"required"`
	Condition string `key:"condition" validate:"required"`
	Severity  string `key:"severity" validate:"oneof=High Medium Low"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if key := fld.Tag.Get("key"); key != "" {
			return key
		}
		return fld.Name
	})
	return v
}

// LoadScanSettings reads scan settings from store, applying defaults for
// absent keys. Invalid values fail with domain.ErrInvalidInput.
func LoadScanSettings(store driven.ConfigStore) (domain.ScanSettings, error) {
	settings := domain.DefaultScanSettings()

	raw := rawSettings{
		RecordLimit:       settings.RecordLimit,
		Timeout:           settings.Timeout,
		PhoneRegion:       strings.ToUpper(strings.TrimSpace(store.GetString(KeyPhoneRegion))),
		SourceType:        string(settings.Source.Type),
		SourcePath:        store.GetString(KeySourcePath),
		RequestsPerSecond: store.GetFloat(KeyRequestsPerSecond),
		RedisAddr:         strings.TrimSpace(store.GetString(KeyRedisAddr)),
		LockTTL:           settings.Lock.TTL,
		ScheduleInterval:  settings.Scheduler.GetTaskConfig(domain.TaskIDDataQualityScan).Interval,
	}
	if _, ok := store.Get(KeyRecordLimit); ok {
		raw.RecordLimit = store.GetInt(KeyRecordLimit)
	}
	if t := store.GetString(KeySourceType); t != "" {
		raw.SourceType = strings.ToLower(t)
	}

	var errs []error
	for key, dst := range map[string]*time.Duration{
		KeyTimeout:          &raw.Timeout,
		KeyLockTTL:          &raw.LockTTL,
		KeyScheduleInterval: &raw.ScheduleInterval,
	} {
		d, ok, err := store.GetDuration(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			*dst = d
		}
	}

	for i, table := range store.GetTables(KeySeverityRules) {
		rule := rawRule{
			ID:        stringField(table, "id"),
			Condition: stringField(table, "condition"),
			Severity:  stringField(table, "severity"),
		}
		if rule.ID == "" {
			rule.ID = fmt.Sprintf("rule-%d", i+1)
		}
		raw.Rules = append(raw.Rules, rule)
	}

	if err := validate.Struct(raw); err != nil {
		errs = append(errs, flattenValidation(err)...)
	}
	if len(errs) > 0 {
		return settings, fmt.Errorf("%w: invalid configuration in %s: %w", domain.ErrInvalidInput, store.Path(), errors.Join(errs...))
	}

	settings.RecordLimit = raw.RecordLimit
	settings.Timeout = raw.Timeout
	settings.ReopenFixed = store.GetBool(KeyReopenFixed)
	settings.PhoneRegion = raw.PhoneRegion
	settings.Source = domain.RecordSourceSettings{
		Type:              domain.RecordSourceType(raw.SourceType),
		Path:              raw.SourcePath,
		RequestsPerSecond: raw.RequestsPerSecond,
	}
	settings.Lock = domain.LockSettings{RedisAddr: raw.RedisAddr, TTL: raw.LockTTL}

	for _, r := range raw.Rules {
		settings.SeverityRules = append(settings.SeverityRules, domain.SeverityRule{
			ID:        r.ID,
			Condition: r.Condition,
			Severity:  domain.Severity(r.Severity),
		})
	}

	if _, ok := store.Get(KeyScheduleEnabled); ok {
		settings.Scheduler.Enabled = store.GetBool(KeyScheduleEnabled)
	}
	scan := settings.Scheduler.TaskConfigs[domain.TaskIDDataQualityScan]
	scan.Interval = raw.ScheduleInterval
	scan.Enabled = raw.ScheduleInterval > 0
	settings.Scheduler.TaskConfigs[domain.TaskIDDataQualityScan] = scan

	return settings, nil
}

// flattenValidation turns validator errors into one error per field.
func flattenValidation(err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "rawSettings.")
		if fe.Param() != "" {
			out = append(out, fmt.Errorf("%s: failed %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			out = append(out, fmt.Errorf("%s: failed %s (got %v)", key, fe.Tag(), fe.Value()))
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
