package rag

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches any *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("rag: invalid configuration")

// ConfigurationError reports an invalid chunking, ranking or summary parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rag: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PipelineError wraps an unexpected fault raised inside a pipeline stage.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("rag: %s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
