package config

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "file"
	SourceEnv     ConfigSource = "env"
	SourceCLI     ConfigSource = "cli"
)

// ResolvedConfig holds the fully-merged configuration plus per-field source
// tracking, so `wfm config debug` can report why a value took effect.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource
	Path    string // path to the config file used, empty if none
}

// CLIOverrides captures flag values that can override configuration. A nil
// field means "not set on the command line".
type CLIOverrides struct {
	ListenAddr *string
	Verbose    *bool
	Quiet      *bool
}

// EnvFunc looks up an environment variable. Default is os.LookupEnv;
// injected here for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) *ResolvedConfig {
	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}

	// Layer 1: defaults.
	*rc.Config = *defaults
	markAll(rc.Sources, SourceDefault)

	// Layer 2: file.
	if fileConfig != nil {
		mergeString(&rc.Config.Server.ListenAddr, fileConfig.Server.ListenAddr, "server.listen_addr", SourceFile, rc.Sources)
		mergeString(&rc.Config.Logging.Format, fileConfig.Logging.Format, "logging.format", SourceFile, rc.Sources)
		if fileConfig.Logging.Verbose {
			rc.Config.Logging.Verbose = true
			rc.Sources["logging.verbose"] = SourceFile
		}
		if fileConfig.Logging.Quiet {
			rc.Config.Logging.Quiet = true
			rc.Sources["logging.quiet"] = SourceFile
		}
		mergeString(&rc.Config.Registry.WorkflowsFile, fileConfig.Registry.WorkflowsFile, "registry.workflows_file", SourceFile, rc.Sources)
		mergeInt(&rc.Config.Engine.DefaultStepTimeoutSeconds, fileConfig.Engine.DefaultStepTimeoutSeconds, "engine.default_step_timeout_seconds", SourceFile, rc.Sources)
		mergeInt(&rc.Config.Engine.MaxStepTimeoutSeconds, fileConfig.Engine.MaxStepTimeoutSeconds, "engine.max_step_timeout_seconds", SourceFile, rc.Sources)
		mergeInt(&rc.Config.Engine.QueuePollIntervalMillis, fileConfig.Engine.QueuePollIntervalMillis, "engine.queue_poll_interval_millis", SourceFile, rc.Sources)
	}

	// Layer 3: environment.
	if val, ok := envFn("WFM_LISTEN_ADDR"); ok {
		rc.Config.Server.ListenAddr = val
		rc.Sources["server.listen_addr"] = SourceEnv
	}
	if val, ok := envFn("WFM_WORKFLOWS_FILE"); ok {
		rc.Config.Registry.WorkflowsFile = val
		rc.Sources["registry.workflows_file"] = SourceEnv
	}
	if _, ok := envFn("WFM_VERBOSE"); ok {
		rc.Config.Logging.Verbose = true
		rc.Sources["logging.verbose"] = SourceEnv
	}
	if _, ok := envFn("WFM_QUIET"); ok {
		rc.Config.Logging.Quiet = true
		rc.Sources["logging.quiet"] = SourceEnv
	}
	if val, ok := envFn("WFM_LOG_FORMAT"); ok {
		rc.Config.Logging.Format = val
		rc.Sources["logging.format"] = SourceEnv
	}

	// Layer 4: CLI overrides.
	if overrides.ListenAddr != nil {
		rc.Config.Server.ListenAddr = *overrides.ListenAddr
		rc.Sources["server.listen_addr"] = SourceCLI
	}
	if overrides.Verbose != nil && *overrides.Verbose {
		rc.Config.Logging.Verbose = true
		rc.Sources["logging.verbose"] = SourceCLI
	}
	if overrides.Quiet != nil && *overrides.Quiet {
		rc.Config.Logging.Quiet = true
		rc.Sources["logging.quiet"] = SourceCLI
	}

	return rc
}

func markAll(sources map[string]ConfigSource, source ConfigSource) {
	for _, key := range []string{
		"server.listen_addr", "logging.format", "logging.verbose", "logging.quiet",
		"registry.workflows_file",
		"engine.default_step_timeout_seconds", "engine.max_step_timeout_seconds",
		"engine.queue_poll_interval_millis",
	} {
		sources[key] = source
	}
}

// mergeString overwrites target with value only when value is non-empty;
// an empty string in the file layer means "not set", so it never overrides
// a lower layer.
func mergeString(target *string, value, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

// mergeInt overwrites target with value only when value is non-zero.
func mergeInt(target *int, value int, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != 0 {
		*target = value
		sources[path] = source
	}
}
