package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/go-chi/chi/v5"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:          "healthy",
		ActiveWorkflows: len(s.engine.ActiveWorkflowIDs()),
		EngineRunning:   s.engine.Running(),
	})
}

// listWorkflows returns every workflow currently in warm storage,
// optionally filtered by ?status=. Grounded on the original implementation
// (lazerwfm/web/api.py list_workflows), which likewise only enumerates
// active ids — historical (cold) entries are reachable individually via
// GET /workflows/{id} until cleaned up.
func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	var out []WorkflowInfo
	for _, id := range s.engine.ActiveWorkflowIDs() {
		wf, ok := s.engine.GetWorkflow(id)
		if !ok {
			continue
		}
		info := toWorkflowInfo(wf)
		if statusFilter != "" && info.Status != statusFilter {
			continue
		}
		out = append(out, info)
	}

	writeJSON(w, http.StatusOK, WorkflowList{Total: len(out), Workflows: out})
}

func (s *Server) listAvailableWorkflows(w http.ResponseWriter, r *http.Request) {
	metas := s.registry.ListPublic()
	out := make([]AvailableWorkflow, 0, len(metas))
	for _, m := range metas {
		out = append(out, toAvailableWorkflow(m))
	}
	writeJSON(w, http.StatusOK, AvailableWorkflowList{Workflows: out})
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wf, ok := s.engine.GetWorkflow(id)
	if !ok {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, toWorkflowInfo(wf))
}

func (s *Server) startWorkflow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req StartWorkflowRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	params := engine.Params(req.Parameters)
	id, err := s.engine.StartWorkflowByName(r.Context(), name, params)
	if err != nil {
		writeStartError(w, err)
		return
	}

	wf, ok := s.engine.GetWorkflow(id)
	if !ok {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, toWorkflowInfo(wf))
}

func (s *Server) stopWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.engine.GetWorkflow(id); !ok {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}
	s.engine.StopWorkflow(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) stopAllWorkflows(w http.ResponseWriter, r *http.Request) {
	s.engine.StopAllWorkflows()
	writeJSON(w, http.StatusOK, map[string]string{"status": "all workflows stopped"})
}

func (s *Server) cleanupWorkflows(w http.ResponseWriter, r *http.Request) {
	var req CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.engine.CleanupOldWorkflows(req.Before)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleanup completed"})
}

func toWorkflowInfo(wf *engine.Workflow) WorkflowInfo {
	var errStr *string
	if err := wf.Err(); err != nil {
		s := err.Error()
		errStr = &s
	}
	return WorkflowInfo{
		WorkflowID: wf.ID(),
		Status:     string(wf.Status()),
		CreatedAt:  wf.CreatedAt(),
		Result:     wf.Result(),
		Error:      errStr,
	}
}

func writeStartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownWorkflow):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrMissingParameter):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
