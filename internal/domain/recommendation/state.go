package recommendation

import "sync"

// State is the client-observable lifecycle of a recommendation query.
type State string

// Query lifecycle states.
const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateSuccess State = "SUCCESS"
	StateEmpty   State = "EMPTY"
	StateError   State = "ERROR"
)

// IsTerminal reports whether the query has finished.
func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateEmpty || s == StateError
}

// Outcome maps a finished query to its terminal state.
func Outcome(results []Recommendation, err error) State {
	switch {
	case err != nil:
		return StateError
	case len(results) == 0:
		return StateEmpty
	default:
		return StateSuccess
	}
}

// Ticket identifies one query started on a Tracker.
type Ticket uint64

// Tracker holds the state of the latest query. Safe for concurrent use.
// Only the most recent Begin may finish; outcomes of superseded queries are dropped.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	state   State
	query   string
	results []Recommendation
	err     error
}

// NewTracker creates a tracker in the IDLE state.
func NewTracker() *Tracker {
	return &Tracker{state: StateIdle}
}

// Begin enters LOADING for a new query from any state and drops previous results.
func (t *Tracker) Begin(query string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.state = StateLoading
	t.query = query
	t.results = nil
	t.err = nil
	return Ticket(t.gen)
}

// Finish records the outcome of the query identified by tk and returns the
// resulting state. A stale ticket, or a call outside LOADING, changes nothing.
func (t *Tracker) Finish(tk Ticket, results []Recommendation, err error) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if uint64(tk) != t.gen || t.state != StateLoading {
		return t.state
	}
	t.state = Outcome(results, err)
	t.results = results
	t.err = err
	return t.state
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns the last query, its results and error.
func (t *Tracker) Snapshot() (string, []Recommendation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query, t.results, t.err
}
