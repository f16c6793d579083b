package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// Ensure ScanOrchestrator implements the interface.
var _ driving.ScanOrchestrator = (*ScanOrchestrator)(nil)

// historyKeep is how many scan runs are retained.
const historyKeep = 100

// ScanOrchestrator runs every registered evaluator, classifies and
// reconciles their findings, and writes the result in one batch.
type ScanOrchestrator struct {
	source     driven.RecordSource
	issueStore driven.IssueStore
	history    driven.ScanHistoryStore
	lock       driven.ScanLock
	classifier *SeverityClassifier
	reconciler *Reconciler

	limit   int
	timeout time.Duration

	evaluators []driven.Evaluator
	tracer     trace.Tracer
	now        func() time.Time
}

// NewScanOrchestrator creates a scan orchestrator.
// history and lock are optional - if nil, runs are not recorded and
// scans are not serialised beyond the ledger's own constraints.
func NewScanOrchestrator(
	source driven.RecordSource,
	issueStore driven.IssueStore,
	history driven.ScanHistoryStore,
	lock driven.ScanLock,
	classifier *SeverityClassifier,
	reconciler *Reconciler,
	settings domain.ScanSettings,
) *ScanOrchestrator {
	limit := settings.RecordLimit
	if limit <= 0 || limit > domain.MaxRecordsPerType {
		limit = domain.MaxRecordsPerType
	}
	if classifier == nil {
		classifier = NewSeverityClassifier(nil)
	}
	if reconciler == nil {
		reconciler = NewReconciler(ReconcileOptions{ReopenFixed: settings.ReopenFixed})
	}
	return &ScanOrchestrator{
		source:     source,
		issueStore: issueStore,
		history:    history,
		lock:       lock,
		classifier: classifier,
		reconciler: reconciler,
		limit:      limit,
		timeout:    settings.Timeout,
		tracer:     otel.Tracer("github.com/custodia-labs/hygiene/scan"),
		now:        time.Now,
	}
}

// Register adds evaluators to the scan. Order is irrelevant: each
// evaluator owns a separate issue-type keyspace.
func (o *ScanOrchestrator) Register(evaluators ...driven.Evaluator) {
	o.evaluators = append(o.evaluators, evaluators...)
}

// Evaluators returns the registered evaluators.
func (o *ScanOrchestrator) Evaluators() []driven.Evaluator {
	return o.evaluators
}

// RunAllScans performs one complete scan pass.
func (o *ScanOrchestrator) RunAllScans(ctx context.Context) (*domain.RunSummary, error) {
	ctx, span := o.tracer.Start(ctx, "ScanOrchestrator.RunAllScans")
	defer span.End()

	if o.source == nil || o.issueStore == nil {
		return nil, errors.New("scan orchestrator not configured")
	}

	if o.lock != nil {
		release, err := o.lock.Acquire(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				logger.Warn("scan: releasing lock: %v", relErr)
			}
		}()
	}

	started := o.now()
	summary, err := o.run(ctx, started)
	o.record(context.WithoutCancel(ctx), started, summary, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("findings", summary.Findings),
		attribute.Int("created", summary.Created),
		attribute.Int("refreshed", summary.Refreshed),
		attribute.Int64("duration_ms", summary.DurationMs()),
	)
	return summary, nil
}

func (o *ScanOrchestrator) run(ctx context.Context, started time.Time) (*domain.RunSummary, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	logger.Section("Evaluate")
	findings, err := o.evaluate(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: exceeded %s budget: %w", domain.ErrScanFailed, o.timeout, err)
		}
		return nil, err
	}

	logger.Section("Reconcile")
	classified := o.classifier.ClassifyAll(findings)
	perType := make(map[domain.IssueType]int)
	keys := make([]domain.IssueKey, 0, len(classified))
	seen := make(map[domain.IssueKey]bool, len(classified))
	for _, f := range classified {
		perType[f.IssueType]++
		if k := f.Key(); !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	existing, err := o.issueStore.QueryIssuesByKey(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: querying existing issues: %w", domain.ErrScanFailed, err)
	}

	result := o.reconciler.Reconcile(existing, classified, o.now())
	logger.Info("reconcile: %d findings, %d existing, %d to create, %d to refresh",
		len(classified), len(existing), len(result.ToCreate), len(result.ToUpdate))

	if !result.IsEmpty() {
		if err := o.issueStore.ApplyBatch(ctx, result.ToCreate, result.ToUpdate); err != nil {
			return nil, fmt.Errorf("%w: writing issues: %w", domain.ErrScanFailed, err)
		}
	}

	return &domain.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Created:   len(result.ToCreate),
		Refreshed: len(result.ToUpdate),
		Findings:  len(classified),
		PerType:   perType,
		Duration:  o.now().Sub(started),
	}, nil
}

type evaluation struct {
	findings []domain.Finding
	err      error
}

// evaluate runs every evaluator concurrently and waits for all of them.
// The first error in registration order wins.
func (o *ScanOrchestrator) evaluate(ctx context.Context) ([]domain.Finding, error) {
	results := make([]evaluation, len(o.evaluators))

	var wg sync.WaitGroup
	for i, e := range o.evaluators {
		wg.Add(1)
		go func(i int, e driven.Evaluator) {
			defer wg.Done()
			results[i] = o.runEvaluator(ctx, e)
		}(i, e)
	}
	wg.Wait()

	var findings []domain.Finding
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		findings = append(findings, r.findings...)
	}
	return findings, nil
}

func (o *ScanOrchestrator) runEvaluator(ctx context.Context, e driven.Evaluator) evaluation {
	ctx, span := o.tracer.Start(ctx, "Evaluator."+e.Name())
	defer span.End()
	defer logger.Timer("evaluate " + e.Name())()

	snapshot := make(domain.Snapshot)
	records := 0
	for _, req := range e.Requirements() {
		if _, done := snapshot[req.ObjectType]; done {
			continue
		}
		fetched, err := o.source.Fetch(ctx, req.ObjectType, req.Fields, o.limit)
		if err != nil {
			if !errors.Is(err, domain.ErrSourceUnavailable) {
				err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return evaluation{err: fmt.Errorf("%s: fetching %s: %w", e.Name(), req.ObjectType, err)}
		}
		if len(fetched) > o.limit {
			logger.Warn("%s: source returned %d %s records, truncating to %d", e.Name(), len(fetched), req.ObjectType, o.limit)
			fetched = fetched[:o.limit]
		}
		logger.Debug("%s: fetched %d %s records", e.Name(), len(fetched), req.ObjectType)
		snapshot[req.ObjectType] = fetched
		records += len(fetched)
	}

	findings := e.Evaluate(snapshot)
	span.SetAttributes(
		attribute.String("rule", e.Name()),
		attribute.String("issue_type", string(e.IssueType())),
		attribute.Int("records", records),
		attribute.Int("findings", len(findings)),
	)
	return evaluation{findings: findings}
}

func (o *ScanOrchestrator) record(ctx context.Context, started time.Time, summary *domain.RunSummary, runErr error) {
	if o.history == nil {
		return
	}
	var run domain.ScanRun
	if runErr != nil {
		run = domain.ScanRun{
			ID:         uuid.NewString(),
			StartedAt:  started,
			FinishedAt: o.now(),
			Error:      runErr.Error(),
		}
	} else {
		run = domain.ScanRunFromSummary(*summary)
	}
	if err := o.history.RecordRun(ctx, run); err != nil {
		logger.Warn("scan: recording run %s: %v", run.ID, err)
	}
}

// History returns recent scan runs, most recent first.
func (o *ScanOrchestrator) History(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	if o.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return o.history.ListRuns(ctx, limit)
}

// PruneHistory trims scan history to the retention limit.
func (o *ScanOrchestrator) PruneHistory(ctx context.Context) error {
	if o.history == nil {
		return nil
	}
	return o.history.PruneRuns(ctx, historyKeep)
}
