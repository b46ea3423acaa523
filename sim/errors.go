package sim

import "fmt"

// ConfigError marks fatal whole-run preconditions (unresolvable hub, negative
// agent count, empty network). Per-agent and per-edge failures are absorbed
// into the run result instead and never surface as errors.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
