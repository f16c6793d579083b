// Command hygiene detects data-quality issues in CRM records.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/hygiene/internal/adapters/driven/config/file"
	"github.com/custodia-labs/hygiene/internal/adapters/driven/export"
	redislock "github.com/custodia-labs/hygiene/internal/adapters/driven/lock/redis"
	celpolicy "github.com/custodia-labs/hygiene/internal/adapters/driven/policy/cel"
	"github.com/custodia-labs/hygiene/internal/adapters/driven/records"
	"github.com/custodia-labs/hygiene/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/hygiene/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/hygiene/internal/adapters/driving/cli"
	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/core/services"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	app, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.close()

	cli.SetVersion(version)
	cli.SetServices(app.services)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// app holds the wired services and the resources to release on exit.
type app struct {
	services cli.Services
	closers  []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("closing: %v", err)
		}
	}
}

func wire(ctx context.Context) (*app, error) {
	a := &app{}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settings, err := file.LoadScanSettings(cfg)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	source, writer, err := openRecordSource(a, settings.Source, store)
	if err != nil {
		a.close()
		return nil, err
	}

	lock, err := openScanLock(ctx, a, settings.Lock)
	if err != nil {
		a.close()
		return nil, err
	}

	policy, err := celpolicy.NewPolicy(settings.SeverityRules)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("compiling severity rules: %w", err)
	}

	orchestrator := services.NewScanOrchestrator(
		source,
		store.IssueStore(),
		store.ScanHistoryStore(),
		lock,
		services.NewSeverityClassifier(policy),
		services.NewReconciler(services.ReconcileOptions{ReopenFixed: settings.ReopenFixed}),
		settings,
	)
	orchestrator.Register(services.BuiltinEvaluators(settings)...)

	importer := services.NewRecordImporter(writer, func(path string) driven.RecordSnapshot {
		return records.NewYAMLSource(path)
	})

	a.services = cli.Services{
		ScanOrchestrator: orchestrator,
		IssueService:     services.NewIssueService(store.IssueStore(), export.All()...),
		RecordImporter:   importer,
		Scheduler:        services.NewScheduler(settings.Scheduler, store.SchedulerStore(), orchestrator),
		SchedulerConfig:  settings.Scheduler,
		ConfigWatcher: func(ctx context.Context) error {
			return file.Watch(ctx, cfg.Path(), func() { reloadPolicy(cfg, policy) })
		},
	}
	return a, nil
}

// openRecordSource returns the source scans read from and the sqlite
// store that record imports write to.
func openRecordSource(
	a *app,
	cfg domain.RecordSourceSettings,
	ledger *sqlite.Store,
) (driven.RecordSource, driven.RecordWriter, error) {
	recordStore := ledger
	if cfg.Type == domain.RecordSourceSQLite && cfg.Path != "" {
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening record database: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		recordStore = s
	}

	var source driven.RecordSource = recordStore.RecordSource()
	if cfg.Type == domain.RecordSourceYAML {
		source = records.NewYAMLSource(cfg.Path)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := int(math.Ceil(cfg.RequestsPerSecond))
		source = records.NewThrottled(source, cfg.RequestsPerSecond, burst)
	}

	logger.Debug("record source: %s %s", cfg.Type, cfg.Path)
	return source, recordStore.RecordSource(), nil
}

// openScanLock returns the Redis lock when configured, otherwise an
// in-process lock.
func openScanLock(ctx context.Context, a *app, cfg domain.LockSettings) (driven.ScanLock, error) {
	if cfg.RedisAddr == "" {
		return memory.NewScanLock(), nil
	}

	lock, err := redislock.NewScanLock(ctx, cfg.RedisAddr, redislock.DefaultKey, cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	a.closers = append(a.closers, lock.Close)
	return lock, nil
}

// reloadPolicy re-reads the config file and swaps in its severity rules.
// Invalid edits keep the current rules.
func reloadPolicy(cfg *file.ConfigStore, policy *celpolicy.Policy) {
	if err := cfg.Load(); err != nil {
		logger.Error("reloading %s: %v", cfg.Path(), err)
		return
	}
	settings, err := file.LoadScanSettings(cfg)
	if err != nil {
		logger.Error("reloading %s: %v", cfg.Path(), err)
		return
	}
	if err := policy.Replace(settings.SeverityRules); err != nil {
		logger.Error("severity rules unchanged: %v", err)
		return
	}
	logger.Info("Reloaded %d severity rules", policy.Len())
}
