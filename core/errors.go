package core

import "fmt"

// ConfigurationError reports a missing or invalid construction-time setting
// (credentials, model identifier, capacities). It is always fatal: no partial
// object is returned alongside it.
type ConfigurationError struct {
	Component string // component that refused to construct
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

// NewConfigurationError creates a ConfigurationError for the given component.
func NewConfigurationError(component, message string) *ConfigurationError {
	return &ConfigurationError{Component: component, Message: message}
}

// GenerationError reports a failed call to the external generation service,
// either a transport/provider failure or a response that could not be parsed
// into the requested schema. It is surfaced to the immediate caller and never
// retried internally.
type GenerationError struct {
	Op  string // logical operation, e.g. "grade_importance", "react_plan"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error during %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err as a GenerationError for operation op.
func NewGenerationError(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}

// PlanParseError reports a generation response that was structurally valid
// but could not be interpreted as a plan.
type PlanParseError struct {
	Raw string // raw model output that failed to parse
	Err error
}

func (e *PlanParseError) Error() string {
	return fmt.Sprintf("plan parse error: %v", e.Err)
}

func (e *PlanParseError) Unwrap() error { return e.Err }

// UnknownToolError reports a dispatch whose resolved tool name is not in the
// (filtered) registry.
type UnknownToolError struct {
	Tool      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q (available: %v)", e.Tool, e.Available)
}

// ArgumentError reports a dispatch whose required parameters could not be
// bound or failed schema validation.
type ArgumentError struct {
	Tool    string
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("argument error in %s: field %q: %s", e.Tool, e.Field, e.Message)
	}
	return fmt.Sprintf("argument error in %s: %s", e.Tool, e.Message)
}
