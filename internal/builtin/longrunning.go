package builtin

import (
	"context"
	"time"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
)

func init() {
	registry.Register("LongRunningWorkflow", newLongRunningWorkflow)
}

// newLongRunningWorkflow demonstrates the step-timeout path: start sleeps
// longer than the default step timeout, so the engine marks the workflow
// Timeout before "complete" is ever dispatched.
func newLongRunningWorkflow() map[string]engine.StepFunc {
	return map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			sleepSeconds := intParam(params, "sleep_seconds", int(engine.DefaultStepTimeout/time.Second)+10)
			select {
			case <-time.After(time.Duration(sleepSeconds) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return engine.NewNext("complete", nil)
		},
		"complete": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewEnd(nil), nil
		},
	}
}
