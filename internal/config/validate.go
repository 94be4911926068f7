package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g. "server.listen_addr"
	Message  string
}

// ValidationResult holds all validation findings for a Config.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors reports whether any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

var validLogFormats = map[string]bool{"": true, "text": true, "json": true}

// Validate checks the configuration for correctness. meta may be nil if no
// file was loaded; when present it is used to flag unrecognized TOML keys.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}
	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		addError(vr, "server.listen_addr", "must not be empty")
	} else if _, _, err := splitHostPort(cfg.Server.ListenAddr); err != nil {
		addError(vr, "server.listen_addr", fmt.Sprintf("invalid address %q: %v", cfg.Server.ListenAddr, err))
	}

	if !validLogFormats[cfg.Logging.Format] {
		addError(vr, "logging.format", fmt.Sprintf("unrecognized format %q; must be one of: text, json", cfg.Logging.Format))
	}

	if cfg.Engine.MaxStepTimeoutSeconds != 0 && cfg.Engine.DefaultStepTimeoutSeconds != 0 &&
		cfg.Engine.DefaultStepTimeoutSeconds > cfg.Engine.MaxStepTimeoutSeconds {
		addError(vr, "engine.default_step_timeout_seconds", "must not exceed engine.max_step_timeout_seconds")
	}
	for field, v := range map[string]int{
		"engine.default_step_timeout_seconds": cfg.Engine.DefaultStepTimeoutSeconds,
		"engine.max_step_timeout_seconds":     cfg.Engine.MaxStepTimeoutSeconds,
		"engine.queue_poll_interval_millis":   cfg.Engine.QueuePollIntervalMillis,
	} {
		if v < 0 {
			addError(vr, field, "must not be negative")
		}
	}

	if meta != nil {
		for _, key := range meta.Undecoded() {
			addWarning(vr, strings.Join(key, "."), "unknown configuration key")
		}
	}

	return vr
}

// splitHostPort does a minimal sanity check on a "host:port" address without
// resolving it (so validation never touches the network).
func splitHostPort(addr string) (host, port string, err error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("missing port")
	}
	port = addr[idx+1:]
	if _, err := strconv.Atoi(port); err != nil {
		return "", "", fmt.Errorf("non-numeric port %q", port)
	}
	return addr[:idx], port, nil
}

func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityError, Field: field, Message: message})
}

func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityWarning, Field: field, Message: message})
}
