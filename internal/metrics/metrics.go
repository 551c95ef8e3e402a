package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for one pipeline process. A nil
// *Metrics is valid and turns every recording method into a no-op.
type Metrics struct {
	GroupsProcessed    *prometheus.CounterVec
	CandidatesFound    prometheus.Counter
	CandidatesVerified prometheus.Counter
	MembershipsWritten prometheus.Counter
	SearchRetries      prometheus.Counter
	SearchInFlight     prometheus.Gauge
}

// New creates and registers all pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GroupsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "groupmap_groups_processed_total",
			Help: "Groups that reached a terminal state, by result.",
		}, []string{"result"}),
		CandidatesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "groupmap_candidates_found_total",
			Help: "Candidate IDs returned by search across all groups.",
		}),
		CandidatesVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "groupmap_candidates_verified_total",
			Help: "Candidate IDs confirmed by the authoritative store.",
		}),
		MembershipsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "groupmap_memberships_written_total",
			Help: "Verified membership pairs handed to the store writer.",
		}),
		SearchRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "groupmap_search_retries_total",
			Help: "Search requests retried after a transient failure.",
		}),
		SearchInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "groupmap_search_in_flight",
			Help: "Batch searches currently holding the global permit.",
		}),
	}
}

// GroupProcessed records a terminal result for one group.
func (m *Metrics) GroupProcessed(result string) {
	if m == nil {
		return
	}
	m.GroupsProcessed.WithLabelValues(result).Inc()
}

// AddCandidatesFound records candidate IDs discovered by search.
func (m *Metrics) AddCandidatesFound(n int) {
	if m == nil {
		return
	}
	m.CandidatesFound.Add(float64(n))
}

// AddCandidatesVerified records candidates confirmed by the store.
func (m *Metrics) AddCandidatesVerified(n int) {
	if m == nil {
		return
	}
	m.CandidatesVerified.Add(float64(n))
}

// AddMembershipsWritten records membership pairs written.
func (m *Metrics) AddMembershipsWritten(n int) {
	if m == nil {
		return
	}
	m.MembershipsWritten.Add(float64(n))
}

// SearchRetried records one retried search request.
func (m *Metrics) SearchRetried() {
	if m == nil {
		return
	}
	m.SearchRetries.Inc()
}

// SearchStarted marks a batch search as holding the global permit.
func (m *Metrics) SearchStarted() {
	if m == nil {
		return
	}
	m.SearchInFlight.Inc()
}

// SearchFinished marks a batch search as having released the permit.
func (m *Metrics) SearchFinished() {
	if m == nil {
		return
	}
	m.SearchInFlight.Dec()
}
