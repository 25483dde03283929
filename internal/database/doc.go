// Package database provides SQLite-based storage for collected samples.
//
// The history store is optional: the plugin protocol itself is
// stateless, but keeping past samples on the box makes scrape
// regressions after firmware updates diagnosable without waiting for
// the grapher. Recording failures are logged and never disturb the
// report output.
package database
