package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrUnauthorized = fmt.Errorf("unauthorized (invalid credentials)")

	// API errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrNotFound    = fmt.Errorf("beatmapset not found")
	ErrRateLimited = fmt.Errorf("rate limited")
	ErrParse       = fmt.Errorf("malformed response body")

	// Monitor errors
	ErrCycleInFlight = fmt.Errorf("monitor cycle already in flight")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
