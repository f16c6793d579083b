package records

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Throttled limits how often the wrapped source is fetched from.
// It uses a token bucket so bursts of one fetch per object type are
// absorbed before the sustained rate applies.
type Throttled struct {
	source  driven.RecordSource
	limiter *rate.Limiter
}

var _ driven.RecordSource = (*Throttled)(nil)

// NewThrottled wraps source with a limit of requestsPerSecond fetches.
// A non-positive rate returns the source unwrapped.
func NewThrottled(source driven.RecordSource, requestsPerSecond float64, burst int) driven.RecordSource {
	if requestsPerSecond <= 0 {
		return source
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Fetch waits for a token, then delegates.
func (t *Throttled) Fetch(
	ctx context.Context,
	objectType domain.ObjectType,
	fields domain.FieldSet,
	limit int,
) ([]domain.SourceRecord, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		// Wait fails early when the next token lies past the deadline.
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("%w: waiting for rate limit: %w", domain.ErrSourceUnavailable, err)
	}
	return t.source.Fetch(ctx, objectType, fields, limit)
}
