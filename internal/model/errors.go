package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the kind shared by every parameter validation failure.
var ErrConfiguration = errors.New("model: configuration error")

// ConfigError reports the offending parameter. It unwraps to ErrConfiguration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s = %g: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
