package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// defaultQueuePollInterval is the sleep applied when the queue is empty
// (spec §4.6 step 1), preventing a busy-wait.
const defaultQueuePollInterval = 100 * time.Millisecond

// Resolver builds a *Workflow for a registered name, validating its
// parameters against the catalog entry first. internal/registry.Registry
// implements this; Engine depends only on the interface to avoid an import
// cycle (registry needs engine.StepFunc/Params, so engine cannot import
// registry back).
type Resolver interface {
	Resolve(name string, params Params) (*Workflow, error)
}

// Engine is the dispatch engine: it owns a storage, a task queue, and a
// registry resolver, and drives a single cooperative dispatch loop.
type Engine struct {
	storage  Storage
	queue    *Queue
	registry Resolver
	logger   *log.Logger

	defaultStepTimeout time.Duration
	maxStepTimeout     time.Duration
	pollInterval       time.Duration

	running   atomic.Bool
	startOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger attaches a charmbracelet/log Logger. When nil the engine
// operates silently.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithDefaultStepTimeout overrides the 120s step-body timeout. Exists so
// tests can run scenarios like S5 in milliseconds instead of minutes.
func WithDefaultStepTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.defaultStepTimeout = d }
}

// WithQueuePollInterval overrides the 100ms empty-queue sleep.
func WithQueuePollInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.pollInterval = d }
}

// WithMaxStepTimeout overrides the 600s ceiling (MaxStepTimeout) applied to
// every step-body and wait/schedule sleep this Engine will honor, regardless
// of what an individual transition requests.
func WithMaxStepTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.maxStepTimeout = d }
}

// NewEngine constructs an Engine. storage and queue must not be nil;
// registry may be nil if the caller only ever starts workflows directly
// via StartWorkflow (never by registered name).
func NewEngine(storage Storage, queue *Queue, registry Resolver, opts ...EngineOption) *Engine {
	e := &Engine{
		storage:            storage,
		queue:              queue,
		registry:           registry,
		defaultStepTimeout: DefaultStepTimeout,
		maxStepTimeout:     MaxStepTimeout,
		pollInterval:       defaultQueuePollInterval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Construction-time validation: a default step timeout above the
	// configured ceiling can never be honored, so clamp it down rather than
	// silently waiting longer than maxStepTimeout permits.
	if e.defaultStepTimeout > e.maxStepTimeout {
		e.defaultStepTimeout = e.maxStepTimeout
		e.log("default step timeout exceeds max step timeout; clamping",
			"max_step_timeout", e.maxStepTimeout)
	}
	return e
}

// StartWorkflow accepts wf, stores it warm, flips it to Running, and
// enqueues its start task. The dispatch goroutine is started lazily on the
// first call. Returns the workflow's id.
func (e *Engine) StartWorkflow(wf *Workflow, params Params) string {
	wf.setRunning()
	e.storage.AddWorkflow(wf)
	e.queue.Push(Task{WorkflowID: wf.ID(), Step: "start", Params: params})
	e.ensureRunning()
	e.log("workflow started", "workflow_id", wf.ID(), "name", wf.Name())
	return wf.ID()
}

// StartWorkflowByName resolves name via the registry (validating required
// parameters) and delegates to StartWorkflow. Returns ErrUnknownWorkflow or
// ErrMissingParameter, wrapped with context, on failure.
func (e *Engine) StartWorkflowByName(ctx context.Context, name string, params Params) (string, error) {
	if e.registry == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownWorkflow, name)
	}
	wf, err := e.registry.Resolve(name, params)
	if err != nil {
		return "", err
	}
	return e.StartWorkflow(wf, params), nil
}

// GetWorkflow looks up id in storage, warm or cold.
func (e *Engine) GetWorkflow(id string) (*Workflow, bool) {
	return e.storage.GetWorkflow(id)
}

// ActiveWorkflowIDs returns a snapshot of the ids currently in warm
// storage. Exposed so internal/httpapi never touches Storage directly.
func (e *Engine) ActiveWorkflowIDs() []string {
	return e.storage.ActiveWorkflowIDs()
}

// Running reports whether the dispatch goroutine is currently active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// StopWorkflow cooperatively stops a running workflow: if present and
// Running, it is marked Failed with ErrCancelled and moved to cold storage
// immediately. It does not preempt a currently in-flight step; the dispatch
// loop's own terminal check (step 3) makes this race-safe, since
// MoveToColdStorage requires a terminal status and Storage removal is
// idempotent. Applying it twice leaves the same terminal error in place.
func (e *Engine) StopWorkflow(id string) {
	wf, ok := e.storage.GetWorkflow(id)
	if !ok || wf.Status() != StatusRunning {
		return
	}
	wf.fail(fmt.Errorf("%w", ErrCancelled))
	e.storage.MoveToColdStorage(id)
	e.log("workflow stopped", "workflow_id", id)
}

// StopAllWorkflows stops every currently active workflow.
func (e *Engine) StopAllWorkflows() {
	for _, id := range e.storage.ActiveWorkflowIDs() {
		e.StopWorkflow(id)
	}
}

// CleanupOldWorkflows purges cold-storage entries completed before the
// given instant.
func (e *Engine) CleanupOldWorkflows(before time.Time) {
	e.storage.CleanupColdStorage(before)
}

// Shutdown signals the dispatch loop to stop and waits for it to exit;
// tasks still in the queue are not run.
// On its way out it marks every still-warm workflow Failed with
// ErrEngineShutdown, per §7's "must not leave workflows stuck in Running"
// propagation policy, then moves each to cold storage.
func (e *Engine) Shutdown(ctx context.Context) error {
	if !e.running.Load() {
		return nil
	}
	close(e.stopCh)
	select {
	case <-e.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, id := range e.storage.ActiveWorkflowIDs() {
		wf, ok := e.storage.GetWorkflow(id)
		if !ok {
			continue
		}
		wf.fail(fmt.Errorf("%w", ErrEngineShutdown))
		e.storage.MoveToColdStorage(id)
	}
	return nil
}

// ensureRunning starts the dispatch goroutine exactly once.
func (e *Engine) ensureRunning() {
	e.startOnce.Do(func() {
		e.running.Store(true)
		go e.dispatchLoop()
	})
}

// dispatchLoop implements spec §4.6 steps 1-10: a single cooperative loop
// that pops a task, resolves the workflow, invokes the named step under a
// timeout, interprets the transition, and enqueues the successor task or
// records a terminal outcome.
func (e *Engine) dispatchLoop() {
	defer close(e.doneCh)
	defer e.running.Store(false)

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		task, ok := e.queue.Pop()
		if !ok {
			select {
			case <-e.stopCh:
				return
			case <-time.After(e.pollInterval):
			}
			continue
		}

		wf, ok := e.storage.GetWorkflow(task.WorkflowID)
		if !ok {
			continue
		}
		if wf.Status().IsTerminal() {
			continue
		}

		wf.setCurrentStepName(task.Step)

		fn, ok := wf.step(task.Step)
		if !ok {
			wf.fail(fmt.Errorf("%w: step %q not found on workflow %q", ErrInvalidTransition, task.Step, wf.Name()))
			e.storage.MoveToColdStorage(wf.ID())
			continue
		}

		transition, err := e.safeInvoke(fn, task.Step, task.Params)
		if err != nil {
			if isDeadlineErr(err) {
				wf.timeout(fmt.Errorf("%w: step %q: %w", ErrStepTimeout, task.Step, err))
			} else if errors.Is(err, ErrInvalidTransition) {
				wf.fail(fmt.Errorf("%w: step %q returned a nil transition", ErrInvalidTransition, task.Step))
			} else {
				wf.fail(fmt.Errorf("%w: step %q: %w", ErrStepFailure, task.Step, err))
			}
			e.storage.MoveToColdStorage(wf.ID())
			continue
		}

		e.applyTransition(wf, transition)

		if wf.Status().IsTerminal() {
			e.storage.MoveToColdStorage(wf.ID())
		}
	}
}

// applyTransition interprets the transition returned by a step (spec §4.6
// step 9) and either records a terminal outcome or enqueues the successor
// task, sleeping first for WaitAndNext/Schedule.
func (e *Engine) applyTransition(wf *Workflow, transition Transition) {
	switch t := transition.(type) {
	case End:
		wf.complete(t.Result)

	case Next:
		e.queue.Push(Task{WorkflowID: wf.ID(), Step: t.Step, Params: t.Params})

	case WaitAndNext:
		if e.sleepWithTimeout(wf, t.Wait, t.Timeout, t.Step) {
			e.queue.Push(Task{WorkflowID: wf.ID(), Step: t.Step, Params: t.Params})
		}

	case Schedule:
		wait := t.waitDuration(time.Now())
		if e.sleepWithTimeout(wf, wait, t.Timeout, t.Step) {
			e.queue.Push(Task{WorkflowID: wf.ID(), Step: t.Step, Params: t.Params})
		}

	default:
		wf.fail(fmt.Errorf("%w: step returned unrecognized transition %T", ErrInvalidTransition, transition))
	}
}

// sleepWithTimeout sleeps wait, capped at timeout (or the engine's default
// step timeout if timeout is the zero value, and never more than the
// engine's max step timeout), and returns whether the successor step
// should be enqueued. It returns false both when the deadline was exceeded
// (recording a Timeout status) and when the engine is shutting down
// (stopCh closed) — in the latter case the sleep is cut short but no
// status is recorded here; Shutdown marks the workflow itself.
func (e *Engine) sleepWithTimeout(wf *Workflow, wait, timeout time.Duration, nextStep string) bool {
	if timeout == 0 {
		timeout = e.defaultStepTimeout
	}
	if timeout > e.maxStepTimeout {
		timeout = e.maxStepTimeout
	}
	sleepFor := wait
	timedOut := wait > timeout
	if timedOut {
		sleepFor = timeout
	}

	if sleepFor > 0 {
		select {
		case <-time.After(sleepFor):
		case <-e.stopCh:
			return false
		}
	}

	if timedOut {
		wf.timeout(fmt.Errorf("%w: wait before step %q exceeded %s", ErrStepTimeout, nextStep, timeout))
		return false
	}
	return true
}

// safeInvoke calls fn wrapped in a recover() block, converting a panicking
// step into an error instead of crashing the process, and enforces the
// step-body timeout via context.
func (e *Engine) safeInvoke(fn StepFunc, stepName string, params Params) (transition Transition, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.defaultStepTimeout)
	defer cancel()

	done := make(chan struct{})
	var result Transition
	var stepErr error
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				stepErr = fmt.Errorf("step %q panicked: %v", stepName, r)
			}
		}()
		result, stepErr = fn(ctx, params)
	}()

	select {
	case <-done:
		if result == nil && stepErr == nil {
			return nil, ErrInvalidTransition
		}
		return result, stepErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isDeadlineErr(err error) bool {
	return err == context.DeadlineExceeded
}

func (e *Engine) log(msg string, kvs ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Info(msg, kvs...)
}
