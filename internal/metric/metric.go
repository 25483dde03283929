package metric

import (
	"slices"
)

// PageKind identifies which router page a family scrapes. The concrete
// paths live in the configuration so firmware variants can override them.
type PageKind int

const (
	// PageConnection is the connection-status page.
	PageConnection PageKind = iota

	// PageSystem is the system-information page (uptime, temperatures, fan).
	PageSystem

	// PageDSL is the ADSL-statistics page (sync rates, attenuation, SNR).
	PageDSL
)

// Sample is one reported value for one field.
type Sample struct {
	// Key is the fixed field identifier (e.g. "tcpum", "atm_down").
	Key string

	// Value is the pre-formatted value. The empty string reports an
	// absent field; formatting happens at collection time because some
	// families post-process (uptime renders with two decimals) and
	// absence must stay distinguishable from zero.
	Value string
}

// Field describes one reported field of a family.
type Field struct {
	// Key is the fixed field identifier used in value and label lines.
	Key string

	// Label is the display label emitted in describe mode.
	Label string
}

// Graph is the static describe-mode metadata of a family.
type Graph struct {
	// Title is the graph title.
	Title string

	// Args are the grapher arguments (axis scaling).
	Args string

	// VLabel is the vertical axis label.
	VLabel string

	// Category groups the graph in the monitoring UI.
	Category string

	// Info is the free-text graph description.
	Info string
}

// Family is one metric family: a named group of fields collected from a
// single router page in one invocation.
type Family struct {
	// Name is the family name and the CLI subcommand selecting it.
	Name string

	// Short is the one-line CLI description.
	Short string

	// Page is the router page the family scrapes.
	Page PageKind

	// Graph is the describe-mode metadata.
	Graph Graph

	// Fields lists the reported fields in output order.
	Fields []Field

	// Collect extracts the family's samples from a page snapshot.
	// It returns one sample per field, in field order, with absent
	// values represented per field policy (empty or a documented default).
	Collect func(snapshot string) []Sample
}

// Lookup returns the family with the given name.
func Lookup(name string) (*Family, bool) {
	for _, f := range families {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Families returns all metric families in registration order.
func Families() []*Family {
	return slices.Clone(families)
}

// Names returns all family names in registration order.
func Names() []string {
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.Name)
	}
	return names
}
