package pipeline

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusQueued, StatusExpanding, true},
		{StatusQueued, StatusSkipped, true},
		{StatusExpanding, StatusSearching, true},
		{StatusExpanding, StatusDone, true},
		{StatusSearching, StatusVerifying, true},
		{StatusVerifying, StatusWriting, true},
		{StatusWriting, StatusCheckpointing, true},
		{StatusCheckpointing, StatusDone, true},
		{StatusSearching, StatusFailed, true},
		{StatusQueued, StatusDone, false},
		{StatusSearching, StatusWriting, false},
		{StatusDone, StatusQueued, false},
		{StatusFailed, StatusExpanding, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDone:    true,
		StatusSkipped: true,
		StatusFailed:  true,
	}
	for _, status := range allStatuses {
		if got := status.IsTerminal(); got != terminal[status] {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, terminal[status])
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range allStatuses {
		if !status.IsValid() {
			t.Errorf("expected %s to be valid", status)
		}
	}
	if Status("bogus").IsValid() {
		t.Error("unexpected valid status")
	}
}
