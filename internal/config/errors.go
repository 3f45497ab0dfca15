package config

import (
	"fmt"
	"strings"
)

// ConfigError aggregates every validation violation found in a Config so
// an operator sees the full list in one pass instead of fixing one
// mistake at a time.
type ConfigError struct {
	Violations []string
}

func (e *ConfigError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid config: %s", e.Violations[0])
	}
	return fmt.Sprintf("invalid config (%d violations):\n  - %s", len(e.Violations), strings.Join(e.Violations, "\n  - "))
}

func (e *ConfigError) add(format string, args ...interface{}) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

func (e *ConfigError) asError() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
