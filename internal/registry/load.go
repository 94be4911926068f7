package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the conventional name of the registry catalog file.
const DefaultFileName = "workflows.yml"

// document mirrors the workflows.yml shape unchanged from spec.md §4.5.
type document struct {
	WorkflowsDir string                  `yaml:"workflows_dir"`
	Workflows    []documentWorkflowEntry `yaml:"workflows"`
}

type documentWorkflowEntry struct {
	Name        string                         `yaml:"name"`
	File        string                         `yaml:"file"`
	Class       string                         `yaml:"class"`
	Description string                         `yaml:"description"`
	Public      *bool                          `yaml:"public"`
	Parameters  map[string]ParameterDescriptor `yaml:"parameters"`
}

// Load resolves workflows.yml using the order from spec.md §6: an explicit
// path argument, else ./workflows.yml, else ../workflows.yml, else zero
// workflows registered (logged at Warn, never fatal — a registry with no
// catalog is a valid, if uninteresting, starting state).
func Load(explicitPath string, opts ...Option) (*Registry, error) {
	r := New(opts...)

	path := explicitPath
	if path == "" {
		for _, candidate := range []string{DefaultFileName, "../" + DefaultFileName} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		r.warn("no workflows.yml found; starting with an empty catalog")
		return r, nil
	}

	if err := r.LoadFromConfig(path); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFromConfig parses the YAML document at path and populates the
// registry. For each entry it resolves "class" against the compiled-in
// Factory table (§4.5); an entry whose class has no registered factory is
// skipped with a Warn log rather than failing the whole load, since other
// entries may still be usable. Duplicate names overwrite earlier entries
// (last-wins), per spec.md §4.5's explicit "implementer's choice".
func (r *Registry) LoadFromConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading registry %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing registry %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, we := range doc.Workflows {
		factory, ok := lookupFactory(we.Class)
		if !ok {
			r.warn(fmt.Sprintf("workflow %q: class %q has no registered factory, skipping", we.Name, we.Class))
			continue
		}
		isPublic := true
		if we.Public != nil {
			isPublic = *we.Public
		}
		r.entries[we.Name] = entry{
			metadata: WorkflowMetadata{
				Name:        we.Name,
				ClassPath:   we.File,
				Class:       we.Class,
				Description: we.Description,
				Parameters:  we.Parameters,
				IsPublic:    isPublic,
			},
			factory: factory,
		}
	}
	return nil
}

func (r *Registry) warn(msg string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg)
}
