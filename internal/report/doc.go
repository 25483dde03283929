// Package report renders a one-shot Markdown summary of all metric
// families, for the "report" subcommand. This output is for humans; the
// monitoring scheduler consumes the plugin-protocol lines instead.
package report
