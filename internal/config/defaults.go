package config

// NewDefaults returns a Config populated with all built-in default values.
func NewDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Logging: LoggingConfig{
			Format: "text",
		},
		Registry: RegistryConfig{},
		Engine:   EngineConfig{},
	}
}
