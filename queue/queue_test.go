package queue

import (
	"testing"

	"github.com/pthm-cable/wildsim/actions"
)

type stubAction struct {
	kind       actions.Kind
	result     actions.Result
	canceled   bool
	execCalled int
}

func (s *stubAction) Kind() actions.Kind                      { return s.kind }
func (s *stubAction) CanExecute(actions.Context) bool         { return true }
func (s *stubAction) Execute(actions.Context) actions.Result  { s.execCalled++; return s.result }
func (s *stubAction) Cancel(actions.Context)                  { s.canceled = true }

func TestReplanInstallsWhenNoActive(t *testing.T) {
	m := NewManager()
	a := &stubAction{kind: actions.KindWander}
	m.Enqueue(1, Request{Action: a, Priority: 10, Utility: 0.5})

	if !m.Replan(1, actions.Context{}) {
		t.Fatal("expected install to report true")
	}
	active, ok := m.ActiveOf(1)
	if !ok || active.Action != a {
		t.Fatal("expected the enqueued action to become active")
	}
}

func TestReplanPreemptsHigherPriority(t *testing.T) {
	m := NewManager()
	low := &stubAction{kind: actions.KindWander}
	m.Enqueue(1, Request{Action: low, Priority: 10, Utility: 0.1})
	m.Replan(1, actions.Context{})

	high := &stubAction{kind: actions.KindFlee}
	m.Enqueue(1, Request{Action: high, Priority: 450, Utility: 1})
	if !m.Replan(1, actions.Context{}) {
		t.Fatal("expected preemption to report true")
	}
	if !low.canceled {
		t.Fatal("expected preempted action's Cancel to be called")
	}
	active, _ := m.ActiveOf(1)
	if active.Action != high {
		t.Fatal("expected higher-priority action to become active")
	}
}

func TestReplanDiscardsLowerPriority(t *testing.T) {
	m := NewManager()
	high := &stubAction{kind: actions.KindFlee}
	m.Enqueue(1, Request{Action: high, Priority: 450, Utility: 1})
	m.Replan(1, actions.Context{})

	low := &stubAction{kind: actions.KindWander}
	m.Enqueue(1, Request{Action: low, Priority: 10, Utility: 0.9})
	if m.Replan(1, actions.Context{}) {
		t.Fatal("expected lower-priority candidate to be discarded, not installed")
	}
	if high.canceled {
		t.Fatal("active action must not be canceled when the new candidate loses")
	}
	active, _ := m.ActiveOf(1)
	if active.Action != high {
		t.Fatal("expected active action to remain unchanged")
	}
}

func TestReplanPicksTopOfMultiplePending(t *testing.T) {
	m := NewManager()
	a1 := &stubAction{kind: actions.KindGraze}
	a2 := &stubAction{kind: actions.KindDrinkWater}
	m.Enqueue(1, Request{Action: a1, Priority: 10, Utility: 0.2})
	m.Enqueue(1, Request{Action: a2, Priority: 800, Utility: 0.9})

	m.Replan(1, actions.Context{})
	active, _ := m.ActiveOf(1)
	if active.Action != a2 {
		t.Fatal("expected highest-priority pending request to win installation")
	}
}

func TestExecuteSuccessClearsSlot(t *testing.T) {
	m := NewManager()
	a := &stubAction{kind: actions.KindWander, result: actions.Result{Kind: actions.ResultSuccess}}
	m.Enqueue(1, Request{Action: a})
	m.Replan(1, actions.Context{})

	outcome, res := m.Execute(1, actions.Context{Self: 1})
	if outcome != ExecDone || res.Kind != actions.ResultSuccess {
		t.Fatalf("expected ExecDone/Success, got %v/%v", outcome, res.Kind)
	}
	if _, ok := m.ActiveOf(1); ok {
		t.Fatal("expected slot cleared after success")
	}
}

func TestExecuteInProgressKeepsSlot(t *testing.T) {
	m := NewManager()
	a := &stubAction{kind: actions.KindGraze, result: actions.Result{Kind: actions.ResultInProgress}}
	m.Enqueue(1, Request{Action: a})
	m.Replan(1, actions.Context{})

	outcome, _ := m.Execute(1, actions.Context{Self: 1})
	if outcome != ExecKept {
		t.Fatalf("expected ExecKept, got %v", outcome)
	}
	if _, ok := m.ActiveOf(1); !ok {
		t.Fatal("expected slot to remain active")
	}
}

func TestExecuteNeedsPathfindingKeepsSlot(t *testing.T) {
	m := NewManager()
	a := &stubAction{kind: actions.KindWander, result: actions.Result{Kind: actions.ResultNeedsPathfinding}}
	m.Enqueue(1, Request{Action: a})
	m.Replan(1, actions.Context{})

	outcome, _ := m.Execute(1, actions.Context{Self: 1})
	if outcome != ExecNeedsPathfinding {
		t.Fatalf("expected ExecNeedsPathfinding, got %v", outcome)
	}
	if _, ok := m.ActiveOf(1); !ok {
		t.Fatal("expected slot to remain active while awaiting a path")
	}
}

func TestExecuteNoActiveIsNoop(t *testing.T) {
	m := NewManager()
	outcome, _ := m.Execute(99, actions.Context{})
	if outcome != ExecDone {
		t.Fatalf("expected ExecDone for entity with no active action, got %v", outcome)
	}
}

func TestClearRemovesActiveAndPending(t *testing.T) {
	m := NewManager()
	a := &stubAction{kind: actions.KindWander}
	m.Enqueue(1, Request{Action: a})
	m.Replan(1, actions.Context{})
	m.Enqueue(1, Request{Action: a})

	m.Clear(1)
	if _, ok := m.ActiveOf(1); ok {
		t.Fatal("expected active cleared")
	}
	if m.Replan(1, actions.Context{}) {
		t.Fatal("expected pending queue cleared too")
	}
}
