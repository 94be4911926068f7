// Package builtin provides example workflows exercising the full range of
// transitions, registered with internal/registry so they can be started
// from workflows.yml. Grounded on the original implementation's
// tests/test_workflow.py sample workflows (LongRunningWorkflow,
// CustomTimeoutWorkflow, ParallelWorkflow).
package builtin

import "github.com/AbdelazizMoustafa10m/wfm/internal/engine"

func stringParam(params engine.Params, key, fallback string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

func intParam(params engine.Params, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
