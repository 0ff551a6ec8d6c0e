package dedup

import (
	"errors"
	"fmt"
)

var (
	// returned (wrapped) for unknown strategies and out-of-range parameters
	ErrInvalidConfig = errors.New("dedup: invalid configuration")

	// returned by the dispatcher for names outside exact, fuzzy and soft
	ErrUnknownStrategy = errors.New("dedup: unknown strategy")

	// returned when fuzzy or soft dedup is built without a hashing backend
	ErrMissingBackend = errors.New("dedup: hashing backend unavailable")
)

// describes a single rejected configuration parameter
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dedup: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
