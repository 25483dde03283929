// Package munin renders the Munin plugin protocol.
//
// The protocol is plain text on stdout: fetch mode emits one
// "<field>.value <value>" line per field, describe mode emits the static
// "graph_*" metadata and one "<field>.label" line per field. Absent
// values render as an empty value so the grapher records a gap instead
// of a false zero.
package munin
