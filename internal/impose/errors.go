// internal/impose/errors.go
package impose

import (
	"errors"
	"fmt"
)

// Typed errors let callers classify failures with errors.Is/errors.As instead
// of string matching. Each type also matches its category sentinel.

var (
	// ErrInvalidConfiguration matches any configuration rejection.
	ErrInvalidConfiguration = errors.New("invalid imposition configuration")
	// ErrInvalidGeometry matches any per-page geometry rejection.
	ErrInvalidGeometry = errors.New("invalid page geometry")
	// ErrAssembly matches any failure surfaced by the assembler or provider.
	ErrAssembly = errors.New("assembly failed")
)

// ConfigError reports a configuration field that failed validation. The plan
// is rejected before any page work happens.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Is matches the configuration sentinel.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfigError creates a ConfigError for one offending field.
func NewConfigError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// GeometryError reports a source page whose dimensions cannot be imposed.
// Sheet and Slot locate the placement that triggered the failure.
type GeometryError struct {
	Page   int // 1-based source page number
	Sheet  int // 0-based output sheet index
	Slot   int // 0-based slot index on the side
	Width  float64
	Height float64
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry for page %d (sheet %d, slot %d): %gx%g pt",
		e.Page, e.Sheet, e.Slot, e.Width, e.Height)
}

// Is matches the geometry sentinel.
func (e *GeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

// AssemblyError wraps an error from the document provider or assembler. It is
// passed through unchanged and never retried.
type AssemblyError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed during %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Is matches the assembly sentinel.
func (e *AssemblyError) Is(target error) bool {
	return target == ErrAssembly
}

// NewAssemblyError wraps err with the stage that produced it.
func NewAssemblyError(stage string, err error) *AssemblyError {
	return &AssemblyError{Stage: stage, Err: err}
}
