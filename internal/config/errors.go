package config

import "errors"

// Sentinel errors for internal use.
var (
	// ErrBadResponse marks a response body that could not be decoded into
	// the expected shape. Callers can distinguish it from transport errors
	// with errors.Is.
	ErrBadResponse = errors.New("unexpected response shape")
)

// Error codes — surfaced in API error envelopes.
const (
	ErrorSensorNotFound = "ERROR_SENSOR_NOT_FOUND"
	ErrorInternal       = "ERROR_INTERNAL"
)
