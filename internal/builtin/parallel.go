package builtin

import (
	"context"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
)

func init() {
	registry.Register("ParallelWorkflow", newParallelWorkflow)
}

// newParallelWorkflow demonstrates a looping Next chain: repeat_step
// decrements repetitions until none remain, then hands off to complete.
func newParallelWorkflow() map[string]engine.StepFunc {
	return map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			name := stringParam(params, "name", "worker")
			repetitions := intParam(params, "repetitions", 5)
			return engine.NewNext("repeat_step", engine.Params{
				"name":        name,
				"repetitions": repetitions,
			})
		},
		"repeat_step": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			repetitions := intParam(params, "repetitions", 0)
			if repetitions <= 0 {
				return engine.NewNext("complete", params)
			}
			next := engine.Params{
				"name":        stringParam(params, "name", "worker"),
				"repetitions": repetitions - 1,
			}
			return engine.NewNext("repeat_step", next)
		},
		"complete": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewEnd(stringParam(params, "name", "worker")), nil
		},
	}
}
