package progress

import "fmt"

// State describes how far along an entry-by-entry operation is.
// It only lives for the duration of one operation.
type State struct {
	// Completed is the number of entries fully processed so far
	Completed int
	// Total is the number of entries the operation will process
	Total int
	// Current is the name of the entry most recently processed
	Current string
}

// Fraction returns the degree of completion, in the [0, 1] interval.
// An operation with nothing to do is considered complete.
func (s State) Fraction() float64 {
	if s.Total <= 0 {
		return 1.0
	}
	return float64(s.Completed) / float64(s.Total)
}

func (s State) String() string {
	return fmt.Sprintf("%d/%d (%s)", s.Completed, s.Total, s.Current)
}

// Tracker counts entries as they complete and hands out snapshots.
type Tracker struct {
	state State
}

// NewTracker returns a tracker for an operation over total entries.
func NewTracker(total int) *Tracker {
	if total < 0 {
		total = 0
	}
	return &Tracker{
		state: State{Total: total},
	}
}

// Advance marks the named entry as done and returns the new state.
// Advancing past the total is a programming error.
func (t *Tracker) Advance(name string) State {
	if t.state.Completed >= t.state.Total {
		panic(fmt.Sprintf("progress: advancing past total (%s)", t.state))
	}

	t.state.Completed++
	t.state.Current = name
	return t.state
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	return t.state
}
