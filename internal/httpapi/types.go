// Package httpapi is the HTTP control surface that fronts the engine:
// start, inspect, and stop workflows over REST, and list the registry
// catalog. It is an external collaborator per the engine's own design —
// it only ever calls Engine's exported methods, never touching Storage or
// Queue directly.
package httpapi

import (
	"time"

	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
)

// WorkflowInfo is the JSON shape returned for a single workflow.
type WorkflowInfo struct {
	WorkflowID string    `json:"workflow_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Result     any       `json:"result"`
	Error      *string   `json:"error"`
}

// WorkflowList wraps a count alongside the listed workflows.
type WorkflowList struct {
	Total     int            `json:"total"`
	Workflows []WorkflowInfo `json:"workflows"`
}

// ParameterInfo is the JSON shape of a single registry.ParameterDescriptor.
type ParameterInfo struct {
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// AvailableWorkflow is the JSON shape of one registry.WorkflowMetadata
// entry, as returned by GET /workflows/available.
type AvailableWorkflow struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]ParameterInfo `json:"parameters"`
	Public      bool                     `json:"public"`
}

// AvailableWorkflowList wraps the catalog of startable workflows.
type AvailableWorkflowList struct {
	Workflows []AvailableWorkflow `json:"workflows"`
}

// StartWorkflowRequest is the POST /workflows/start/{name} request body.
type StartWorkflowRequest struct {
	Parameters map[string]any `json:"parameters"`
}

// CleanupRequest is the POST /workflows/cleanup request body.
type CleanupRequest struct {
	Before time.Time `json:"before"`
}

// HealthStatus is the GET /health response body.
type HealthStatus struct {
	Status          string `json:"status"`
	ActiveWorkflows int    `json:"active_workflows"`
	EngineRunning   bool   `json:"engine_running"`
}

// errorResponse is the JSON shape for all non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

func toAvailableWorkflow(meta registry.WorkflowMetadata) AvailableWorkflow {
	params := make(map[string]ParameterInfo, len(meta.Parameters))
	for name, desc := range meta.Parameters {
		params[name] = ParameterInfo{
			Type:        desc.Type,
			Required:    desc.Required,
			Default:     desc.Default,
			Description: desc.Description,
		}
	}
	return AvailableWorkflow{
		Name:        meta.Name,
		Description: meta.Description,
		Parameters:  params,
		Public:      meta.IsPublic,
	}
}
