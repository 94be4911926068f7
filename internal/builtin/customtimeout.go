package builtin

import (
	"context"
	"time"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
)

func init() {
	registry.Register("CustomTimeoutWorkflow", newCustomTimeoutWorkflow)
}

// newCustomTimeoutWorkflow demonstrates a per-transition timeout argument:
// start hands off to long_step on a Next transition carrying an explicit
// 10s timeout. The engine does not apply a Next transition's timeout, so
// long_step still runs under the engine's default step timeout.
func newCustomTimeoutWorkflow() map[string]engine.StepFunc {
	return map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewNext("long_step", params, 10*time.Second)
		},
		"long_step": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			sleepSeconds := intParam(params, "sleep_seconds", 5)
			select {
			case <-time.After(time.Duration(sleepSeconds) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return engine.NewEnd(nil), nil
		},
	}
}
