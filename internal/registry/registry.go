package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/charmbracelet/log"
)

// entry pairs a workflow's catalog metadata with the factory that builds
// its step table.
type entry struct {
	metadata WorkflowMetadata
	factory  Factory
}

// Registry is the loaded catalog of workflows.yml: a lookup from unique
// workflow name to metadata and its compiled-in factory. Loading happens
// once at startup (or on demand via Load); lookups may run concurrently
// with the HTTP surface, so access is guarded by a RWMutex.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  *log.Logger
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger attaches a charmbracelet/log Logger used for load-time
// diagnostics (missing file, unresolved class). Duplicate names are not
// logged; a later entry silently replaces an earlier one.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the metadata registered under name.
func (r *Registry) Lookup(name string) (WorkflowMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return WorkflowMetadata{}, false
	}
	return e.metadata, true
}

// List returns metadata for every registered workflow, sorted by name.
func (r *Registry) List() []WorkflowMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WorkflowMetadata, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListPublic returns metadata for every registered workflow with
// IsPublic set, sorted by name.
func (r *Registry) ListPublic() []WorkflowMetadata {
	all := r.List()
	out := make([]WorkflowMetadata, 0, len(all))
	for _, m := range all {
		if m.IsPublic {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks that every required parameter for name is present in
// params. It is invoked by Engine.StartWorkflowByName at start time, never
// at load time.
func (r *Registry) Validate(name string, params engine.Params) error {
	meta, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrUnknownWorkflow, name)
	}
	for pname, desc := range meta.Parameters {
		if !desc.Required {
			continue
		}
		if _, present := params[pname]; !present {
			return fmt.Errorf("%w: %s", engine.ErrMissingParameter, pname)
		}
	}
	return nil
}

// Resolve validates params against name's metadata and builds a fresh
// *engine.Workflow from its factory's step table. It implements
// engine.Resolver, so an Engine can be constructed with a *Registry
// directly.
func (r *Registry) Resolve(name string, params engine.Params) (*engine.Workflow, error) {
	if err := r.Validate(name, params); err != nil {
		return nil, err
	}
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()
	return engine.NewWorkflow(name, e.factory()), nil
}
