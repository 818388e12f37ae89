package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a document is missing.
var ErrNotFound = errors.New("not found")

// ConfigurationError reports an invalid splitter setting. It is returned at
// construction time, before any text is processed.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// InputError points at the document in a batch that could not be split.
type InputError struct {
	DocID  string
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	if e.DocID == "" {
		return fmt.Sprintf("invalid document at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid document %q at index %d: %s", e.DocID, e.Index, e.Reason)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsInputError reports whether err wraps an InputError.
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}
