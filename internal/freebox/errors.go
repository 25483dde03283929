package freebox

import "errors"

// Session and transport errors.
//
// Design decision: We define specific sentinel errors rather than
// wrapping all failures generically because the command layer maps each
// failure class to its own exit code (authentication vs. transport), and
// the distinction drives whether re-authentication is even attempted.
var (
	// ErrBadCredentials is returned when the router rejects the login
	// password. This is fatal: retrying with the same password cannot
	// succeed, and hammering the login endpoint locks the web interface.
	ErrBadCredentials = errors.New("router rejected the login credentials")

	// ErrRouterUnreachable is returned on any transport-level failure:
	// connection refused, timeout, DNS, or a non-2xx response. The router
	// is presumed offline and the fetch is never retried.
	ErrRouterUnreachable = errors.New("router unreachable")

	// ErrSessionRejected is returned when the router keeps serving the
	// login form even after fresh, successful logins. This bounds the
	// re-authentication loop; a firmware in this state would otherwise
	// hold the scheduler forever.
	ErrSessionRejected = errors.New("session rejected after repeated re-authentication")
)

// SessionState describes the authentication lifecycle of a Client.
type SessionState int

const (
	// StateNoSession means no token has been loaded or acquired yet.
	StateNoSession SessionState = iota

	// StateAuthenticating means a login request is in flight because the
	// previous fetch was answered with the login form.
	StateAuthenticating

	// StateAuthenticated means the last fetch was served real content.
	StateAuthenticated
)

// String returns a human-readable description of the session state.
func (s SessionState) String() string {
	switch s {
	case StateNoSession:
		return "no session"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
