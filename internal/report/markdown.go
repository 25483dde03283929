package report

import (
	"io"
	"time"

	"github.com/nao1215/markdown"

	"github.com/nao1215/fbxmon/internal/metric"
)

// FamilyResult is one family's collected samples within a Collection.
type FamilyResult struct {
	// Family is the collected metric family.
	Family *metric.Family

	// Samples are the collected values in field order.
	Samples []metric.Sample
}

// Collection is the outcome of collecting every metric family once.
type Collection struct {
	// BaseURL is the router the samples came from.
	BaseURL string

	// CollectedAt is the collection time.
	CollectedAt time.Time

	// Results holds one entry per family in registry order.
	Results []FamilyResult
}

// MarkdownWriter outputs a Collection in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe tables and headings beat hand-joined
// strings once the document has more than one section.
type MarkdownWriter struct {
	// output receives the rendered document.
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the collection as a Markdown document.
func (w *MarkdownWriter) Write(c *Collection) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Freebox Metrics Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Router", "`" + c.BaseURL + "`"},
			{"Collected", c.CollectedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	md.H2("Samples")
	md.PlainText("")

	rows := make([][]string, 0, len(c.Results)*2)
	for _, result := range c.Results {
		labels := fieldLabels(result.Family)
		for _, s := range result.Samples {
			value := s.Value
			if value == "" {
				value = "absent"
			}
			rows = append(rows, []string{result.Family.Name, s.Key, labels[s.Key], value})
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Family", "Field", "Label", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}

// fieldLabels indexes a family's display labels by field key.
func fieldLabels(family *metric.Family) map[string]string {
	labels := make(map[string]string, len(family.Fields))
	for _, f := range family.Fields {
		labels[f.Key] = f.Label
	}
	return labels
}
