// Package errs defines the error taxonomy shared across runners and the
// dispatcher. Violations are data, not errors; only infrastructure and
// configuration problems surface as error values.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTool marks an absent external binary.
	ErrMissingTool = errors.New("missing tool")

	// ErrConfig marks an invalid or expired configuration.
	ErrConfig = errors.New("configuration error")
)

// MissingToolError reports an external binary that could not be found.
// It is fatal for the owning runner's completeness, never silently
// equivalent to "zero violations".
type MissingToolError struct {
	Tool string
	Hint string
}

func (e *MissingToolError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("required tool %q not found (install: %s)", e.Tool, e.Hint)
	}
	return fmt.Sprintf("required tool %q not found", e.Tool)
}

func (e *MissingToolError) Is(target error) bool { return target == ErrMissingTool }

// ConfigError reports a validation failure with enough location detail to
// act on. It is raised before any runner executes.
type ConfigError struct {
	File    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigf builds a ConfigError without line context.
func NewConfigf(file, format string, args ...any) error {
	return &ConfigError{File: file, Message: fmt.Sprintf(format, args...)}
}

// IsMissingTool reports whether err wraps a MissingToolError.
func IsMissingTool(err error) bool { return errors.Is(err, ErrMissingTool) }

// IsConfig reports whether err wraps a ConfigError.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }
