package engine

import "errors"

// Sentinel errors identifying the error kinds surfaced by the engine and
// registry. Callers use errors.Is against these; context is attached with
// fmt.Errorf("...: %w", ...) at the point of use.
var (
	// ErrUnknownWorkflow is returned when a name has no registered entry.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrMissingParameter is returned when a required parameter is absent
	// at start time.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidTimeout is returned when a transition is constructed with
	// a timeout exceeding MaxStepTimeout.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidTransition is returned when a step returns a nil
	// Transition or something that is not a Transition at all.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrStepTimeout is recorded when a step body or a wait/schedule sleep
	// exceeds its deadline.
	ErrStepTimeout = errors.New("step timeout")

	// ErrStepFailure wraps any non-timeout error a step returns.
	ErrStepFailure = errors.New("step failure")

	// ErrCancelled is recorded when a workflow is stopped externally.
	ErrCancelled = errors.New("workflow cancelled")

	// ErrEngineShutdown is recorded on workflows still in Running status
	// when the engine is shut down (expansion beyond spec.md, demanded by
	// the "must not leave workflows stuck in Running" propagation policy).
	ErrEngineShutdown = errors.New("engine shutdown")
)
