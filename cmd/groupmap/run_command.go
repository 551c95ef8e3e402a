package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"groupmap/internal/checkpoint"
	"groupmap/internal/config"
	"groupmap/internal/logging"
	"groupmap/internal/metrics"
	"groupmap/internal/pipeline"
	"groupmap/internal/retrypolicy"
	"groupmap/internal/search"
	"groupmap/internal/store"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every unprocessed group",
		Long: "Run expands each group's recorded names into search variations, finds\n" +
			"matching candidates in the search cluster, verifies them against the\n" +
			"authoritative store, writes memberships, and checkpoints completion.\n" +
			"Already-checkpointed groups are skipped, so interrupted runs resume\n" +
			"where they left off.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			return runPipeline(cmd, cfg)
		},
	}
}

func runPipeline(cmd *cobra.Command, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	lock := flock.New(filepath.Join(cfg.Logging.LogDir, "groupmap.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another groupmap run is already in progress")
	}
	defer lock.Unlock() //nolint:errcheck

	cp, err := checkpoint.Open(cfg.Checkpoint.Path)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}
	defer cp.Close()

	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New(registry)
		defer serveMetrics(ctx, cfg.Metrics.Bind, registry, logger)()
	}

	gateway, err := search.New(search.Options{
		Nodes:        cfg.Search.Nodes,
		Index:        cfg.Search.Index,
		MatchField:   cfg.Search.MatchField,
		IDField:      cfg.Search.IDField,
		BatchSize:    cfg.Search.BatchSize,
		PageSize:     cfg.Search.PageSize,
		ScrollWindow: cfg.Search.ScrollWindow,
		MaxInFlight:  cfg.Search.MaxInFlight,
		Retry:        retrypolicy.Policy{MaxAttempts: cfg.Search.MaxAttempts},
		Client:       &http.Client{Timeout: cfg.RequestTimeout()},
		Logger:       logger,
		Metrics:      m,
	})
	if err != nil {
		return fmt.Errorf("init search gateway: %w", err)
	}

	coordinator, err := pipeline.New(pipeline.Options{
		Workers:    cfg.Pipeline.Workers,
		Searcher:   gateway,
		Checkpoint: cp,
		Sessions: func(ctx context.Context) (pipeline.Session, error) {
			return st.Session(ctx)
		},
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	groupIDs, err := st.GroupIDs(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	logger.Info("run starting",
		logging.Int("groups", len(groupIDs)),
		logging.Int("already_processed", cp.Count()),
		logging.Int("workers", cfg.Pipeline.Workers),
	)

	started := time.Now()
	summary, runErr := coordinator.Run(ctx, groupIDs)

	logger.Info("run finished",
		logging.Int("done", summary.Done),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int64("memberships", summary.Memberships),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, time.Since(started)))

	// Individual group failures are retried on the next run and do not make
	// the run itself fail.
	if runErr != nil && errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// serveMetrics exposes the registry on the configured bind address for the
// duration of the run. The returned func blocks until the listener is down.
func serveMetrics(ctx context.Context, bind string, registry *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: bind, Handler: mux}

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("metrics listener starting", logging.String("bind", bind))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", logging.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics listener shutdown", logging.Error(err))
		}
		<-done
	}
}

func renderSummary(summary pipeline.Summary, elapsed time.Duration) string {
	rows := [][]string{
		{"Groups", strconv.Itoa(summary.Total)},
		{"Done", strconv.Itoa(summary.Done)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Memberships written", strconv.FormatInt(summary.Memberships, 10)},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
