package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkflowStatus is the lifecycle state of a workflow instance.
type WorkflowStatus string

const (
	StatusPending   WorkflowStatus = "pending"
	StatusRunning   WorkflowStatus = "running"
	StatusCompleted WorkflowStatus = "completed"
	StatusFailed    WorkflowStatus = "failed"
	// StatusWaiting is declared but never assigned by the dispatch loop in
	// this engine — see SPEC_FULL.md's State machine section. Status stays
	// Running throughout a WaitAndNext/Schedule sleep.
	StatusWaiting WorkflowStatus = "waiting"
	StatusTimeout WorkflowStatus = "timeout"
)

// IsTerminal reports whether s is one of the terminal statuses. Once a
// workflow reaches a terminal status it never leaves it.
func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimeout:
		return true
	default:
		return false
	}
}

// StepFunc is a single named step on a workflow: an asynchronous unit of
// work that returns a Transition describing what happens next.
type StepFunc func(ctx context.Context, params Params) (Transition, error)

// Workflow is a running or completed instance of a workflow definition. Its
// mutable fields (status, result, error, current step) are written only by
// the Engine's dispatch loop and read by any consumer, so access is guarded
// by a RWMutex: the HTTP surface reads concurrently with the single
// dispatcher goroutine writing.
type Workflow struct {
	mu sync.RWMutex

	id        string
	name      string
	status    WorkflowStatus
	createdAt time.Time

	currentStepName *string
	result          any
	err             error

	steps map[string]StepFunc
}

// NewWorkflow constructs a workflow instance with a fresh UUID identity.
// steps must contain a "start" entry; NewWorkflow panics if it is absent,
// mirroring the teacher's Registry.Register panicking on a missing name —
// a construction-time programmer error, not a runtime condition.
func NewWorkflow(name string, steps map[string]StepFunc) *Workflow {
	if _, ok := steps["start"]; !ok {
		panic("engine: workflow " + name + " has no \"start\" step")
	}
	if name == "" {
		name = "Unnamed Workflow"
	}
	return &Workflow{
		id:        uuid.NewString(),
		name:      name,
		status:    StatusPending,
		createdAt: time.Now(),
		steps:     steps,
	}
}

// ID returns the workflow's opaque identifier.
func (w *Workflow) ID() string { return w.id }

// Name returns the workflow's human label.
func (w *Workflow) Name() string { return w.name }

// CreatedAt returns the creation wall-clock time.
func (w *Workflow) CreatedAt() time.Time { return w.createdAt }

// Status returns the current lifecycle status.
func (w *Workflow) Status() WorkflowStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// Result returns the value set by an End transition, or nil if the
// workflow has not completed successfully.
func (w *Workflow) Result() any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result
}

// Err returns the error recorded when status became Failed or Timeout, or
// nil otherwise.
func (w *Workflow) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// CurrentStepName returns the last step name dispatched, or nil if no step
// has been dispatched yet.
func (w *Workflow) CurrentStepName() *string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentStepName
}

// step looks up a step function by name.
func (w *Workflow) step(name string) (StepFunc, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn, ok := w.steps[name]
	return fn, ok
}

// setCurrentStepName records the step about to be dispatched.
func (w *Workflow) setCurrentStepName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.currentStepName = &name
}

// setRunning flips a Pending workflow to Running. Only called once, when
// the engine accepts the workflow.
func (w *Workflow) setRunning() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = StatusRunning
}

// complete records a successful End transition.
func (w *Workflow) complete(result any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.IsTerminal() {
		return
	}
	w.result = result
	w.status = StatusCompleted
}

// fail records a terminal failure (step-failure, invalid-transition, or
// cancellation) with the given error.
func (w *Workflow) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.IsTerminal() {
		return
	}
	w.err = err
	w.status = StatusFailed
}

// timeout records a step or sleep deadline overrun.
func (w *Workflow) timeout(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.IsTerminal() {
		return
	}
	w.err = err
	w.status = StatusTimeout
}
