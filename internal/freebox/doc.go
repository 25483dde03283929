// Package freebox manages the authenticated HTTP session against the
// Freebox router's web interface.
//
// The firmware invalidates sessions at its own discretion and signals it
// only by serving the login form in place of the requested page. The
// Client hides that: a page fetch either returns real page content after
// transparently re-authenticating, or fails with one of the package's
// sentinel errors. The session cookie is persisted between invocations
// so that a scheduler calling this tool every few minutes does not log
// in every time.
package freebox
