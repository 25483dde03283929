package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling (the command layer maps
// ErrNoPassword to the authentication exit code) while still providing
// human-readable messages.
var (
	// ErrNoPassword is returned when no router password is available.
	// The password comes from the FREEBOX_PASSWORD environment variable
	// or the config file; without it authentication cannot succeed, so
	// this is treated as an authentication failure.
	ErrNoPassword = errors.New("no router password: set FREEBOX_PASSWORD or the password key in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A zero or negative timeout would cause immediate transport failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidAuthRetries is returned when the re-authentication cap is
	// not positive. The cap is what bounds the session-recovery loop; a
	// non-positive value would either disable recovery or unbound it.
	ErrInvalidAuthRetries = errors.New("invalid auth retries: must be positive")

	// ErrInvalidBaseURL is returned when the router base URL is empty or
	// not an absolute http/https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")
)
