// Package scrape extracts numeric fields from the Freebox web interface.
//
// The router's pages are loosely structured HTML with no stable markup to
// select on, so extraction is positional and textual: a field is located
// by an anchor line and/or a unit suffix that immediately follows a run
// of digits. The package also converts raw HTML bodies into line-oriented
// text snapshots, decoding the ISO-8859-1 encoding the firmware serves.
package scrape
