package recommendation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestOutcome(t *testing.T) {
	if got := Outcome(nil, errors.New("x")); got != StateError {
		t.Errorf("error -> %s", got)
	}
	if got := Outcome(nil, nil); got != StateEmpty {
		t.Errorf("no results -> %s", got)
	}
	if got := Outcome([]Recommendation{{ID: "a"}}, nil); got != StateSuccess {
		t.Errorf("results -> %s", got)
	}
}

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()
	if tr.State() != StateIdle {
		t.Fatalf("initial state = %s", tr.State())
	}

	tk := tr.Begin("파스타")
	if tr.State() != StateLoading {
		t.Fatalf("after Begin = %s", tr.State())
	}

	if got := tr.Finish(tk, []Recommendation{{ID: "a"}}, nil); got != StateSuccess {
		t.Fatalf("Finish = %s", got)
	}
	q, res, err := tr.Snapshot()
	if q != "파스타" || len(res) != 1 || err != nil {
		t.Errorf("Snapshot() = %q %v %v", q, res, err)
	}

	// Resubmission from a terminal state re-enters LOADING.
	tk = tr.Begin("매운")
	if tr.State() != StateLoading {
		t.Fatalf("resubmit state = %s", tr.State())
	}
	if _, res, _ := tr.Snapshot(); res != nil {
		t.Error("Begin should drop previous results")
	}
	if got := tr.Finish(tk, nil, errors.New("boom")); got != StateError {
		t.Errorf("Finish(err) = %s", got)
	}
	tk = tr.Begin("again")
	if got := tr.Finish(tk, nil, nil); got != StateEmpty {
		t.Errorf("Finish(empty) = %s", got)
	}
}

func TestTracker_FinishWithoutBegin(t *testing.T) {
	tr := NewTracker()
	if got := tr.Finish(0, []Recommendation{{ID: "a"}}, nil); got != StateIdle {
		t.Errorf("Finish from IDLE = %s, want IDLE", got)
	}
}

func TestTracker_SupersededQueryIsDropped(t *testing.T) {
	tr := NewTracker()
	first := tr.Begin("first")
	second := tr.Begin("second")

	// The older response arrives first and must not land on the newer query.
	if got := tr.Finish(first, []Recommendation{{ID: "from-first"}}, nil); got != StateLoading {
		t.Fatalf("stale Finish = %s, want LOADING", got)
	}
	if got := tr.Finish(second, nil, nil); got != StateEmpty {
		t.Fatalf("Finish(second) = %s, want EMPTY", got)
	}

	q, res, err := tr.Snapshot()
	if q != "second" || len(res) != 0 || err != nil {
		t.Errorf("Snapshot() = %q %v %v, want second with no results", q, res, err)
	}

	// A late answer for the first query after the second finished is ignored too.
	if got := tr.Finish(first, []Recommendation{{ID: "late"}}, nil); got != StateEmpty {
		t.Errorf("late stale Finish = %s, want EMPTY", got)
	}
}

func TestTracker_ConcurrentQueriesKeepLatest(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		tk := tr.Begin("q")
		wg.Add(1)
		go func(tk Ticket, id string) {
			defer wg.Done()
			tr.Finish(tk, []Recommendation{{ID: id}}, nil)
		}(tk, fmt.Sprintf("r%d", i))
	}
	wg.Wait()

	if tr.State() != StateSuccess {
		t.Fatalf("State() = %s, want SUCCESS", tr.State())
	}
	if _, res, _ := tr.Snapshot(); len(res) != 1 || res[0].ID != "r49" {
		t.Errorf("results = %v, want only the latest query's", res)
	}
}

func TestState_IsTerminal(t *testing.T) {
	for _, s := range []State{StateSuccess, StateEmpty, StateError} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateLoading} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
