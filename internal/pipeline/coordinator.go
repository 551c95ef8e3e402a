package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"groupmap/internal/alias"
	"groupmap/internal/logging"
	"groupmap/internal/metrics"
	"groupmap/internal/store"
)

// Searcher resolves a set of name variations into candidate IDs.
type Searcher interface {
	Search(ctx context.Context, variations []string) (map[int64]struct{}, error)
}

// Checkpointer records which groups have completed across runs.
type Checkpointer interface {
	IsProcessed(groupID int64) bool
	MarkProcessed(groupID int64) error
}

// Session is one worker's pinned view of the authoritative store.
type Session interface {
	GroupNames(ctx context.Context, groupID int64) (string, []string, error)
	VerifyCandidates(ctx context.Context, candidates map[int64]struct{}) (map[int64]struct{}, error)
	WriteMemberships(ctx context.Context, groupID int64, candidates map[int64]struct{}) (int64, error)
	Close() error
}

// Options configures a Coordinator.
type Options struct {
	Workers    int
	Searcher   Searcher
	Checkpoint Checkpointer
	// Sessions opens a store session for one worker's lifetime.
	Sessions func(ctx context.Context) (Session, error)
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Coordinator drives groups through the stages with a bounded worker pool.
// Each worker holds one store session for its whole lifetime; group failures
// are isolated and never abort the run.
type Coordinator struct {
	workers    int
	searcher   Searcher
	checkpoint Checkpointer
	sessions   func(ctx context.Context) (Session, error)
	logger     *slog.Logger
	metrics    *metrics.Metrics

	done        atomic.Int64
	skipped     atomic.Int64
	failed      atomic.Int64
	memberships atomic.Int64
}

// New validates options and returns a Coordinator.
func New(opts Options) (*Coordinator, error) {
	if opts.Searcher == nil {
		return nil, errors.New("pipeline: searcher is required")
	}
	if opts.Checkpoint == nil {
		return nil, errors.New("pipeline: checkpoint is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("pipeline: session factory is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Coordinator{
		workers:    opts.Workers,
		searcher:   opts.Searcher,
		checkpoint: opts.Checkpoint,
		sessions:   opts.Sessions,
		logger:     logging.NewComponentLogger(opts.Logger, "pipeline"),
		metrics:    opts.Metrics,
	}, nil
}

// Run processes the given groups and returns a summary of terminal states.
// Cancellation stops workers between groups; groups not yet checkpointed are
// picked up again on the next run.
func (c *Coordinator) Run(ctx context.Context, groupIDs []int64) (Summary, error) {
	queue := make(chan int64, len(groupIDs))
	for _, id := range groupIDs {
		queue <- id
	}
	close(queue)

	workers := min(c.workers, max(len(groupIDs), 1))
	p := pool.New().WithMaxGoroutines(workers)
	for i := 0; i < workers; i++ {
		p.Go(func() {
			c.runWorker(ctx, queue)
		})
	}
	p.Wait()

	// Groups left in the queue were never picked up: every worker exited
	// early, either on cancellation or because no session could be opened.
	for id := range queue {
		c.logger.Error("group never processed", logging.Int64(logging.FieldGroupID, id))
		c.recordResult(StatusFailed)
	}

	summary := Summary{
		Total:       len(groupIDs),
		Done:        int(c.done.Load()),
		Skipped:     int(c.skipped.Load()),
		Failed:      int(c.failed.Load()),
		Memberships: c.memberships.Load(),
	}
	return summary, ctx.Err()
}

// runWorker opens one session and processes groups until the queue drains or
// the context is canceled.
func (c *Coordinator) runWorker(ctx context.Context, queue <-chan int64) {
	session, err := c.sessions(ctx)
	if err != nil {
		c.logger.Error("open store session", logging.Error(err))
		return
	}
	defer session.Close()

	for groupID := range queue {
		if ctx.Err() != nil {
			c.logger.Warn("run canceled before group started",
				logging.Int64(logging.FieldGroupID, groupID))
			c.recordResult(StatusFailed)
			continue
		}
		c.processGroup(ctx, session, groupID)
	}
}

// processGroup drives one group from Queued to a terminal status.
func (c *Coordinator) processGroup(ctx context.Context, session Session, groupID int64) {
	logger := c.logger.With(
		logging.Int64(logging.FieldGroupID, groupID),
		logging.String("op_id", uuid.NewString()),
	)

	status := StatusQueued
	advance := func(next Status) {
		if !status.CanTransition(next) {
			logger.Error("invalid stage transition",
				logging.String("from", string(status)),
				logging.String("to", string(next)),
			)
		}
		status = next
		logger.Debug("stage entered", logging.String(logging.FieldStage, string(next)))
	}
	fail := func(stage string, err error) {
		status = StatusFailed
		logger.Error("group failed",
			logging.String(logging.FieldStage, stage),
			logging.Error(err),
			logging.String(logging.FieldEventType, "group_failed"),
		)
		c.recordResult(StatusFailed)
	}

	if c.checkpoint.IsProcessed(groupID) {
		advance(StatusSkipped)
		logger.Debug("group already processed; skipping")
		c.recordResult(StatusSkipped)
		return
	}

	advance(StatusExpanding)
	name, aliases, err := session.GroupNames(ctx, groupID)
	if err != nil {
		fail("expanding", err)
		return
	}
	variations := alias.Expand(aliases, name)
	if len(variations) == 0 {
		// Nothing to search for. The group is complete with zero
		// memberships and must not be revisited.
		if err := c.checkpoint.MarkProcessed(groupID); err != nil {
			fail("checkpointing", err)
			return
		}
		advance(StatusDone)
		logger.Info("group has no usable names; recorded as complete")
		c.recordResult(StatusDone)
		return
	}

	advance(StatusSearching)
	candidates, err := c.searcher.Search(ctx, variations)
	if err != nil {
		fail("searching", err)
		return
	}
	c.metrics.AddCandidatesFound(len(candidates))

	advance(StatusVerifying)
	verified, err := session.VerifyCandidates(ctx, candidates)
	if err != nil {
		fail("verifying", err)
		return
	}
	c.metrics.AddCandidatesVerified(len(verified))

	advance(StatusWriting)
	written, err := session.WriteMemberships(ctx, groupID, verified)
	if err != nil {
		fail("writing", err)
		return
	}
	c.metrics.AddMembershipsWritten(int(written))
	c.memberships.Add(written)

	advance(StatusCheckpointing)
	if err := c.checkpoint.MarkProcessed(groupID); err != nil {
		fail("checkpointing", fmt.Errorf("mark processed: %w", err))
		return
	}

	advance(StatusDone)
	logger.Info("group complete",
		logging.Int("variations", len(variations)),
		logging.Int("candidates", len(candidates)),
		logging.Int("verified", len(verified)),
		logging.Int64("written", written),
	)
	c.recordResult(StatusDone)
}

func (c *Coordinator) recordResult(status Status) {
	switch status {
	case StatusDone:
		c.done.Add(1)
	case StatusSkipped:
		c.skipped.Add(1)
	case StatusFailed:
		c.failed.Add(1)
	}
	c.metrics.GroupProcessed(string(status))
}

var _ Session = (*store.Session)(nil)
