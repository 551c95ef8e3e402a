package search

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"groupmap/internal/logging"
	"groupmap/internal/metrics"
	"groupmap/internal/retrypolicy"
)

// HTTPDoer describes the HTTP client used by the gateway.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options describes gateway construction parameters.
type Options struct {
	// Nodes lists equivalent cluster endpoints; each request picks one at
	// random so load spreads and an unreachable node only fails the attempts
	// routed to it.
	Nodes      []string
	Index      string
	MatchField string
	IDField    string
	BatchSize  int
	PageSize   int
	// ScrollWindow is the continuation-token validity window, e.g. "5m".
	ScrollWindow string
	// MaxInFlight bounds concurrent batch searches across the whole process,
	// independent of how many pipeline workers exist.
	MaxInFlight int
	Retry       retrypolicy.Policy
	Client      HTTPDoer
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Gateway resolves variation sets into candidate ID sets against a sharded
// full-text search cluster. Failures degrade to partial or empty results;
// only context cancellation surfaces as an error.
type Gateway struct {
	nodes      []string
	index      string
	matchField string
	idField    string
	batchSize  int
	pageSize   int
	scroll     string
	client     HTTPDoer
	permit     *semaphore.Weighted
	retry      retrypolicy.Policy
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

const (
	defaultBatchSize    = 50
	defaultPageSize     = 2000
	defaultScrollWindow = "5m"
	defaultMaxInFlight  = 20
)

// New constructs a search gateway.
func New(opts Options) (*Gateway, error) {
	nodes := make([]string, 0, len(opts.Nodes))
	for _, node := range opts.Nodes {
		trimmed := strings.TrimRight(strings.TrimSpace(node), "/")
		if trimmed != "" {
			nodes = append(nodes, trimmed)
		}
	}
	if len(nodes) == 0 {
		return nil, errors.New("search gateway requires at least one node")
	}
	if strings.TrimSpace(opts.Index) == "" {
		return nil, errors.New("search gateway requires an index name")
	}

	g := &Gateway{
		nodes:      nodes,
		index:      strings.TrimSpace(opts.Index),
		matchField: strings.TrimSpace(opts.MatchField),
		idField:    strings.TrimSpace(opts.IDField),
		batchSize:  opts.BatchSize,
		pageSize:   opts.PageSize,
		scroll:     strings.TrimSpace(opts.ScrollWindow),
		client:     opts.Client,
		retry:      opts.Retry,
		logger:     logging.NewComponentLogger(opts.Logger, "search"),
		metrics:    opts.Metrics,
	}
	if g.matchField == "" {
		g.matchField = "resume"
	}
	if g.idField == "" {
		g.idField = "candidateid"
	}
	if g.batchSize < 1 {
		g.batchSize = defaultBatchSize
	}
	if g.pageSize < 1 {
		g.pageSize = defaultPageSize
	}
	if g.scroll == "" {
		g.scroll = defaultScrollWindow
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}
	maxInFlight := opts.MaxInFlight
	if maxInFlight < 1 {
		maxInFlight = defaultMaxInFlight
	}
	g.permit = semaphore.NewWeighted(int64(maxInFlight))
	return g, nil
}
