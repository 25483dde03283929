package munin

import (
	"fmt"
	"io"

	"github.com/nao1215/fbxmon/internal/metric"
)

// Writer emits plugin-protocol lines for one metric family.
//
// Design decision: We write through an injected io.Writer rather than
// printing to os.Stdout directly so tests can capture output and the
// report subcommand can collect lines without a pipe.
type Writer struct {
	// output receives the protocol lines.
	output io.Writer
}

// NewWriter creates a Writer that outputs to the given writer.
func NewWriter(output io.Writer) *Writer {
	return &Writer{output: output}
}

// WriteValues emits the fetch-mode value lines for the samples.
// An absent sample renders as "<key>.value " with an empty value.
func (w *Writer) WriteValues(samples []metric.Sample) error {
	for _, s := range samples {
		if _, err := fmt.Fprintf(w.output, "%s.value %s\n", s.Key, s.Value); err != nil {
			return fmt.Errorf("failed to write value line: %w", err)
		}
	}
	return nil
}

// WriteConfig emits the describe-mode metadata for a family: the graph
// attributes followed by one label line per field, in field order.
func (w *Writer) WriteConfig(family *metric.Family) error {
	lines := []struct {
		key   string
		value string
	}{
		{"graph_title", family.Graph.Title},
		{"graph_args", family.Graph.Args},
		{"graph_vlabel", family.Graph.VLabel},
		{"graph_category", family.Graph.Category},
		{"graph_info", family.Graph.Info},
	}

	for _, line := range lines {
		if line.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w.output, "%s %s\n", line.key, line.value); err != nil {
			return fmt.Errorf("failed to write config line: %w", err)
		}
	}

	for _, field := range family.Fields {
		if _, err := fmt.Fprintf(w.output, "%s.label %s\n", field.Key, field.Label); err != nil {
			return fmt.Errorf("failed to write label line: %w", err)
		}
	}

	return nil
}
