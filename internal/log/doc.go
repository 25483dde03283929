// Package log provides secure logging for fbxmon.
//
// The agent handles the router's admin password and session cookie, and
// its stderr often ends up in scheduler logs kept for a long time. The
// SecureHandler wraps any slog.Handler and masks credential-bearing
// attributes before they are written.
package log
