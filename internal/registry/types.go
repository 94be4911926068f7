// Package registry loads workflow definitions declaratively from
// workflows.yml, validates start-time parameters, and instantiates
// workflows by their registered name.
package registry

// ParameterDescriptor documents a single named parameter a workflow
// accepts at start time.
type ParameterDescriptor struct {
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Default     any    `yaml:"default,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// WorkflowMetadata is a registry entry: everything about a workflow except
// its executable step table.
type WorkflowMetadata struct {
	// Name is the unique key workflows.yml registers this workflow under.
	Name string
	// ClassPath is the "file" field from workflows.yml, kept for
	// diagnostics only — unlike the source language, Go has no runtime
	// mechanism to load a source file by path, so this is never read back
	// as code; resolution goes through the compiled-in Factory map (§4.5).
	ClassPath string
	// Class is the "class" field from workflows.yml; the key a Factory was
	// registered under via Register.
	Class       string
	Description string
	Parameters  map[string]ParameterDescriptor
	IsPublic    bool
}
