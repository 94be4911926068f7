// Package config loads wfm's ambient process configuration from wfm.toml.
//
// This is distinct from internal/registry's workflows.yml, which describes
// the workflow catalog itself (§4.5 of the design). config carries only
// process wiring: where the HTTP server listens, how verbose logging is,
// and where the workflow catalog file lives.
package config

// Config is the top-level configuration structure mapping to wfm.toml.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Registry RegistryConfig `toml:"registry"`
	Engine   EngineConfig   `toml:"engine"`
}

// ServerConfig maps to the [server] section in wfm.toml.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig maps to the [logging] section in wfm.toml.
type LoggingConfig struct {
	Verbose bool   `toml:"verbose"`
	Quiet   bool   `toml:"quiet"`
	Format  string `toml:"format"` // "text" or "json"
}

// RegistryConfig maps to the [registry] section in wfm.toml.
type RegistryConfig struct {
	// WorkflowsFile overrides the default resolution order for workflows.yml
	// (explicit path > ./workflows.yml > ../workflows.yml > none).
	WorkflowsFile string `toml:"workflows_file"`
}

// EngineConfig maps to the [engine] section in wfm.toml. These are advanced
// tunables; the zero value of every field means "use the engine's built-in
// default" (120s step timeout, 600s max, 100ms queue poll).
type EngineConfig struct {
	DefaultStepTimeoutSeconds int `toml:"default_step_timeout_seconds"`
	MaxStepTimeoutSeconds     int `toml:"max_step_timeout_seconds"`
	QueuePollIntervalMillis   int `toml:"queue_poll_interval_millis"`
}
