package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrConfig indicates invalid or contradictory export configuration.
	ErrConfig = errors.New("tsforge: invalid configuration")
	// ErrGeneration indicates a code generation failure.
	ErrGeneration = errors.New("tsforge: code generation failed")
	// ErrPreservation indicates a malformed custom region in a prior file.
	// It is surfaced as a diagnostic, never as a fatal generation error.
	ErrPreservation = errors.New("tsforge: custom region preservation failed")
)

// ConfigError represents invalid or contradictory export configuration.
// It is fatal for the affected type but must not abort unrelated types.
type ConfigError struct {
	Type    string // offending type name, if any
	Option  string // offending option or attribute
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("tsforge: config error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Option != "" {
		fmt.Fprintf(&b, " for %q", e.Option)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(typeName, option string, value any, message string) *ConfigError {
	return &ConfigError{
		Type:    typeName,
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a failure while assembling one output file.
type GenerationError struct {
	Type    string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("tsforge: generation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " (file: %s)", e.File)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(typeName, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Type:    typeName,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// PreservationWarning reports a malformed or unterminated custom marker in
// a previously generated file. The affected region is treated as empty and
// generation continues.
type PreservationWarning struct {
	File    string
	Tag     string
	Message string
}

// Error implements the error interface.
func (e *PreservationWarning) Error() string {
	var b strings.Builder
	b.WriteString("tsforge: preservation warning")
	if e.File != "" {
		fmt.Fprintf(&b, " in %s", e.File)
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, " (region %q)", e.Tag)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for PreservationWarning.
func (e *PreservationWarning) Is(target error) bool {
	return target == ErrPreservation
}

// NewPreservationWarning creates a new PreservationWarning.
func NewPreservationWarning(file, tag, message string) *PreservationWarning {
	return &PreservationWarning{
		File:    file,
		Tag:     tag,
		Message: message,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsPreservationWarning reports whether the error is a PreservationWarning.
func IsPreservationWarning(err error) bool {
	var warn *PreservationWarning
	return errors.As(err, &warn)
}
