package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()
	reg := registry.New()
	eng := engine.NewEngine(engine.NewMemoryStorage(), engine.NewQueue(), reg,
		engine.WithDefaultStepTimeout(200*time.Millisecond),
		engine.WithQueuePollInterval(5*time.Millisecond))
	return New(eng, reg), eng
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthStatus
	decodeJSON(t, rec, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.EngineRunning)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/workflows/nonexistent", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWorkflow_Found(t *testing.T) {
	t.Parallel()
	s, eng := newTestServer(t)
	wf := engine.NewWorkflow("w", map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewEnd("done"), nil
		},
	})
	id := eng.StartWorkflow(wf, nil)
	require.Eventually(t, func() bool {
		w, _ := eng.GetWorkflow(id)
		return w.Status().IsTerminal()
	}, time.Second, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/workflows/"+id, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info WorkflowInfo
	decodeJSON(t, rec, &info)
	assert.Equal(t, id, info.WorkflowID)
	assert.Equal(t, "completed", info.Status)
	assert.Equal(t, "done", info.Result)
}

func TestListWorkflows_FiltersByStatus(t *testing.T) {
	t.Parallel()
	s, eng := newTestServer(t)
	wf := engine.NewWorkflow("w", map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewWaitAndNext(time.Hour, "start", nil, engine.MaxStepTimeout)
		},
	})
	eng.StartWorkflow(wf, nil)

	req := httptest.NewRequest(http.MethodGet, "/workflows?status=running", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list WorkflowList
	decodeJSON(t, rec, &list)
	assert.Equal(t, 1, list.Total)

	req2 := httptest.NewRequest(http.MethodGet, "/workflows?status=completed", nil)
	rec2 := httptest.NewRecorder()
	s.Router().ServeHTTP(rec2, req2)
	var list2 WorkflowList
	decodeJSON(t, rec2, &list2)
	assert.Equal(t, 0, list2.Total)
}

func TestStartWorkflow_UnknownName(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/workflows/start/nope", bytes.NewBufferString(`{"parameters":{}}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartWorkflow_MissingParameter(t *testing.T) {
	t.Parallel()
	reg := registry.New()
	registry.Register("HTTPTestClassA", func() map[string]engine.StepFunc {
		return map[string]engine.StepFunc{
			"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
				return engine.NewEnd(nil), nil
			},
		}
	})
	require.NoError(t, reg.LoadFromConfig(writeCatalog(t, `
workflows:
  - name: needs-param
    class: HTTPTestClassA
    parameters:
      account_id:
        required: true
`)))
	eng := engine.NewEngine(engine.NewMemoryStorage(), engine.NewQueue(), reg)
	s := New(eng, reg)

	req := httptest.NewRequest(http.MethodPost, "/workflows/start/needs-param", bytes.NewBufferString(`{"parameters":{}}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/workflows.yml"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestStopWorkflow_NotFound(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/workflows/nonexistent/stop", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopAllWorkflows(t *testing.T) {
	t.Parallel()
	s, eng := newTestServer(t)
	wf := engine.NewWorkflow("w", map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewWaitAndNext(time.Hour, "start", nil, engine.MaxStepTimeout)
		},
	})
	id := eng.StartWorkflow(wf, nil)

	req := httptest.NewRequest(http.MethodPost, "/workflows/stop-all", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got, _ := eng.GetWorkflow(id)
	assert.Equal(t, engine.StatusFailed, got.Status())
}

func TestCleanupWorkflows(t *testing.T) {
	t.Parallel()
	s, eng := newTestServer(t)
	wf := engine.NewWorkflow("w", map[string]engine.StepFunc{
		"start": func(ctx context.Context, params engine.Params) (engine.Transition, error) {
			return engine.NewEnd(nil), nil
		},
	})
	id := eng.StartWorkflow(wf, nil)
	require.Eventually(t, func() bool {
		w, _ := eng.GetWorkflow(id)
		return w.Status().IsTerminal()
	}, time.Second, time.Millisecond)

	body, _ := json.Marshal(CleanupRequest{Before: time.Now().Add(time.Hour)})
	req := httptest.NewRequest(http.MethodPost, "/workflows/cleanup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := eng.GetWorkflow(id)
	assert.False(t, ok)
}

func TestListAvailableWorkflows(t *testing.T) {
	t.Parallel()
	reg := registry.New()
	registry.Register("HTTPTestClassB", func() map[string]engine.StepFunc { return nil })
	require.NoError(t, reg.LoadFromConfig(writeCatalog(t, `
workflows:
  - name: available-one
    class: HTTPTestClassB
    description: an available workflow
    public: true
`)))
	eng := engine.NewEngine(engine.NewMemoryStorage(), engine.NewQueue(), reg)
	s := New(eng, reg)

	req := httptest.NewRequest(http.MethodGet, "/workflows/available", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list AvailableWorkflowList
	decodeJSON(t, rec, &list)
	require.Len(t, list.Workflows, 1)
	assert.Equal(t, "available-one", list.Workflows[0].Name)
}
