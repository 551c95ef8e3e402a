package pipeline

// Status represents the lifecycle of a group within a run.
type Status string

const (
	StatusQueued        Status = "queued"
	StatusExpanding     Status = "expanding"
	StatusSearching     Status = "searching"
	StatusVerifying     Status = "verifying"
	StatusWriting       Status = "writing"
	StatusCheckpointing Status = "checkpointing"
	StatusDone          Status = "done"
	StatusSkipped       Status = "skipped"
	StatusFailed        Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusExpanding,
	StatusSearching,
	StatusVerifying,
	StatusWriting,
	StatusCheckpointing,
	StatusDone,
	StatusSkipped,
	StatusFailed,
}

// validTransitions is the forward path through the stages. Every working
// status may also fail; Skipped is only reachable from Queued because the
// checkpoint is consulted before any work starts.
var validTransitions = map[Status][]Status{
	StatusQueued:        {StatusExpanding, StatusSkipped, StatusFailed},
	StatusExpanding:     {StatusSearching, StatusDone, StatusFailed},
	StatusSearching:     {StatusVerifying, StatusFailed},
	StatusVerifying:     {StatusWriting, StatusFailed},
	StatusWriting:       {StatusCheckpointing, StatusFailed},
	StatusCheckpointing: {StatusDone, StatusFailed},
}

// IsValid reports whether the status is one of the defined lifecycle values.
func (s Status) IsValid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a group in this status is finished for the run.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusSkipped || s == StatusFailed
}

// CanTransition reports whether moving from s to next follows the stage
// order.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Summary aggregates the outcome of one run across all groups.
type Summary struct {
	Total       int
	Done        int
	Skipped     int
	Failed      int
	Memberships int64
}
