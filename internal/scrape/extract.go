package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// FieldSpec declares how to locate one numeric value in a page snapshot.
//
// Two modes exist:
//   - Anchored: Anchor is non-empty. The first snapshot line containing
//     Anchor is the region, and the first digit run followed by Unit
//     within that region is the value.
//   - Anchorless: Anchor is empty. All <digits><Unit> matches across the
//     whole snapshot are counted in document order and Occurrence selects
//     one of them (1-based). This mode exists for the ADSL statistics
//     page, where four "dB" values appear with no distinguishing labels.
//
// Design decision: We keep extraction declarative (a spec value per
// field) rather than writing ad-hoc parsing per metric because:
//  1. The anchor + unit + occurrence triple is the entire "protocol"
//     this tool shares with the firmware
//  2. Reporters stay pure tables over FieldSpec values
//  3. New firmware fields only need a new spec entry
type FieldSpec struct {
	// Anchor is a literal text fragment identifying the line that holds
	// the value. Empty means anchorless occurrence-based matching.
	Anchor string

	// Unit is the literal unit suffix immediately following the digits,
	// without its leading space (e.g. "dB", "°C", "kbit/s", "jour").
	// Plural forms on the page ("jours") match because the suffix is a
	// prefix of the source text.
	Unit string

	// Occurrence selects the 1-based match across the snapshot in
	// anchorless mode. Ignored when Anchor is set. Zero is treated as 1.
	Occurrence int
}

// unitPatterns caches one compiled regexp per unit suffix. The set of
// units is small and fixed, so the cache never grows unbounded.
var unitPatterns sync.Map // unit string -> *regexp.Regexp

// unitPattern returns the regexp matching a digit run followed by the
// unit suffix, with at most one space between them ("42 dB" and "42dB"
// both occur across firmware versions).
func unitPattern(unit string) *regexp.Regexp {
	if cached, ok := unitPatterns.Load(unit); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`([0-9]+) ?` + regexp.QuoteMeta(unit))
	unitPatterns.Store(unit, re)
	return re
}

// Extract returns the value matched by spec in the snapshot text.
// The second return value reports whether a match exists: absence is
// distinct from zero, and callers decide per metric whether absence
// defaults to anything.
func Extract(text string, spec FieldSpec) (int64, bool) {
	if spec.Anchor != "" {
		region, ok := Region(text, spec.Anchor)
		if !ok {
			return 0, false
		}
		return firstValue(region, spec.Unit)
	}
	return nthValue(text, spec.Unit, spec.Occurrence)
}

// Region returns the first snapshot line containing anchor.
// Reporters use it both as the extraction region and for textual checks
// such as the localized connection-state string.
func Region(text, anchor string) (string, bool) {
	for line := range strings.Lines(text) {
		if strings.Contains(line, anchor) {
			return strings.TrimRight(line, "\n"), true
		}
	}
	return "", false
}

// firstValue extracts the first digit run followed by unit in region.
func firstValue(region, unit string) (int64, bool) {
	m := unitPattern(unit).FindStringSubmatch(region)
	if m == nil {
		return 0, false
	}
	return parseDigits(m[1])
}

// nthValue extracts the n-th (1-based) digit run followed by unit across
// the whole text, counting non-overlapping matches in document order.
func nthValue(text, unit string, n int) (int64, bool) {
	if n < 1 {
		n = 1
	}
	matches := unitPattern(unit).FindAllStringSubmatch(text, n)
	if len(matches) < n {
		return 0, false
	}
	return parseDigits(matches[n-1][1])
}

// parseDigits converts a digit run to a signed integer.
// A run long enough to overflow int64 is treated as absent rather than
// reported as a clamped or wrapped value.
func parseDigits(digits string) (int64, bool) {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
