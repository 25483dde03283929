package metric

import (
	"strconv"
	"strings"

	"github.com/nao1215/fbxmon/internal/scrape"
)

// Anchors and unit suffixes as they appear in the firmware's pages.
// The interface is French; the unit words double as extraction
// delimiters and match their plural forms by prefix. conn_state is a
// markup id, not display text; scrape.Snapshot surfaces element ids
// onto the snapshot line so it can anchor the state cell.
const (
	anchorConnState = "conn_state"
	anchorUptime    = "Uptime since"
	anchorTempCPUm  = "Temperature CPUm"
	anchorTempCPUb  = "Temperature CPUb"
	anchorTempSW    = "Temperature SW"
	anchorFan       = "Fan speed"

	unitCelsius = "°C"
	unitRPM     = "RPM"
	unitKbit    = "kbit/s"
	unitDB      = "dB"
	unitDay     = "jour"
	unitHour    = "heure"
	unitMinute  = "minute"
	unitSecond  = "seconde"

	// connectedText is the localized state shown when the ADSL link is up.
	connectedText = "Connecté"

	secondsPerDay = 86400
)

// families is the registry of all monitored metric families.
// Order is the CLI help order.
var families = []*Family{
	{
		Name:  "status",
		Short: "Report whether the ADSL link is up",
		Page:  PageConnection,
		Graph: Graph{
			Title:    "Freebox link status",
			Args:     "--base 1000 -l 0 -u 1",
			VLabel:   "link up",
			Category: "network",
			Info:     "ADSL link state as reported by the Freebox (1 = connected).",
		},
		Fields:  []Field{{Key: "status", Label: "Link up"}},
		Collect: collectStatus,
	},
	{
		Name:  "uptime",
		Short: "Report the router uptime in days",
		Page:  PageSystem,
		Graph: Graph{
			Title:    "Freebox uptime",
			Args:     "--base 1000 -l 0",
			VLabel:   "days",
			Category: "system",
			Info:     "Time since the Freebox last booted.",
		},
		Fields:  []Field{{Key: "uptime", Label: "Uptime"}},
		Collect: collectUptime,
	},
	{
		Name:  "temp",
		Short: "Report the internal temperature sensors",
		Page:  PageSystem,
		Graph: Graph{
			Title:    "Freebox temperatures",
			Args:     "--base 1000 -l 0",
			VLabel:   "degrees Celsius",
			Category: "sensors",
			Info:     "Internal temperature sensors of the Freebox.",
		},
		Fields: []Field{
			{Key: "tcpum", Label: "CPU (main)"},
			{Key: "tcpub", Label: "CPU (broadband)"},
			{Key: "tsw", Label: "Switch"},
		},
		Collect: collectTemp,
	},
	{
		Name:  "fan",
		Short: "Report the fan speed",
		Page:  PageSystem,
		Graph: Graph{
			Title:    "Freebox fan speed",
			Args:     "--base 1000 -l 0",
			VLabel:   "RPM",
			Category: "sensors",
			Info:     "Fan speed of the Freebox. Fanless models report 0.",
		},
		Fields:  []Field{{Key: "fan", Label: "Fan speed"}},
		Collect: collectFan,
	},
	{
		Name:  "atm",
		Short: "Report the ADSL sync rates",
		Page:  PageDSL,
		Graph: Graph{
			Title:    "Freebox ADSL bandwidth",
			Args:     "--base 1000 -l 0",
			VLabel:   "kbit/s",
			Category: "network",
			Info:     "ATM sync rates negotiated on the ADSL line.",
		},
		Fields: []Field{
			{Key: "atm_down", Label: "Download"},
			{Key: "atm_up", Label: "Upload"},
		},
		Collect: collectATM,
	},
	{
		Name:  "attenuation",
		Short: "Report the ADSL line attenuation",
		Page:  PageDSL,
		Graph: Graph{
			Title:    "Freebox ADSL attenuation",
			Args:     "--base 1000 -l 0",
			VLabel:   "dB",
			Category: "network",
			Info:     "Line attenuation in both directions.",
		},
		Fields: []Field{
			{Key: "attenuation_down", Label: "Downstream"},
			{Key: "attenuation_up", Label: "Upstream"},
		},
		Collect: occurrenceCollector(unitDB, map[string]int{
			"attenuation_down": 1,
			"attenuation_up":   2,
		}, []string{"attenuation_down", "attenuation_up"}),
	},
	{
		Name:  "snr",
		Short: "Report the ADSL signal/noise margin",
		Page:  PageDSL,
		Graph: Graph{
			Title:    "Freebox ADSL signal/noise margin",
			Args:     "--base 1000 -l 0",
			VLabel:   "dB",
			Category: "network",
			Info:     "Signal/noise margin in both directions.",
		},
		Fields: []Field{
			{Key: "snr_down", Label: "Downstream"},
			{Key: "snr_up", Label: "Upstream"},
		},
		Collect: occurrenceCollector(unitDB, map[string]int{
			"snr_down": 3,
			"snr_up":   4,
		}, []string{"snr_down", "snr_up"}),
	},
}

// collectStatus reports 1 when the connection-state line carries the
// localized "connected" text, 0 otherwise (including a missing line:
// a page without a state is a link that is not up).
func collectStatus(snapshot string) []Sample {
	value := "0"
	if region, ok := scrape.Region(snapshot, anchorConnState); ok &&
		strings.Contains(region, connectedText) {
		value = "1"
	}
	return []Sample{{Key: "status", Value: value}}
}

// collectUptime converts the composite French duration line into
// fractional days with two decimals. Components missing from the line
// (a box up for two days shows no seconds) default to zero; a missing
// line altogether reports absence.
func collectUptime(snapshot string) []Sample {
	region, ok := scrape.Region(snapshot, anchorUptime)
	if !ok {
		return []Sample{{Key: "uptime"}}
	}

	var total int64
	for _, part := range []struct {
		unit    string
		seconds int64
	}{
		{unitDay, secondsPerDay},
		{unitHour, 3600},
		{unitMinute, 60},
		{unitSecond, 1},
	} {
		if v, ok := scrape.Extract(region, scrape.FieldSpec{Unit: part.unit, Occurrence: 1}); ok {
			total += v * part.seconds
		}
	}

	days := float64(total) / secondsPerDay
	return []Sample{{Key: "uptime", Value: strconv.FormatFloat(days, 'f', 2, 64)}}
}

// collectTemp reports the three temperature sensors. A sensor missing
// from this firmware or hardware revision stays absent, never zero:
// a zero would read as a frozen router.
func collectTemp(snapshot string) []Sample {
	specs := []struct {
		key    string
		anchor string
	}{
		{"tcpum", anchorTempCPUm},
		{"tcpub", anchorTempCPUb},
		{"tsw", anchorTempSW},
	}

	samples := make([]Sample, 0, len(specs))
	for _, s := range specs {
		sample := Sample{Key: s.key}
		if v, ok := scrape.Extract(snapshot, scrape.FieldSpec{Anchor: s.anchor, Unit: unitCelsius}); ok {
			sample.Value = strconv.FormatInt(v, 10)
		}
		samples = append(samples, sample)
	}
	return samples
}

// collectFan reports the fan speed. Absence defaults to 0: fanless
// revisions simply have no fan line, and 0 RPM is the truthful reading.
func collectFan(snapshot string) []Sample {
	value := "0"
	if v, ok := scrape.Extract(snapshot, scrape.FieldSpec{Anchor: anchorFan, Unit: unitRPM}); ok {
		value = strconv.FormatInt(v, 10)
	}
	return []Sample{{Key: "fan", Value: value}}
}

// collectATM reports the negotiated sync rates: the first kbit/s value
// on the page is the downstream rate, the second the upstream rate.
func collectATM(snapshot string) []Sample {
	return occurrenceCollector(unitKbit, map[string]int{
		"atm_down": 1,
		"atm_up":   2,
	}, []string{"atm_down", "atm_up"})(snapshot)
}

// occurrenceCollector builds a collector for anchorless fields selected
// by document-order occurrence of a unit suffix. The ADSL statistics
// page exposes its four dB values this way, with no distinguishing
// labels at all.
func occurrenceCollector(unit string, occurrences map[string]int, order []string) func(string) []Sample {
	return func(snapshot string) []Sample {
		samples := make([]Sample, 0, len(order))
		for _, key := range order {
			sample := Sample{Key: key}
			spec := scrape.FieldSpec{Unit: unit, Occurrence: occurrences[key]}
			if v, ok := scrape.Extract(snapshot, spec); ok {
				sample.Value = strconv.FormatInt(v, 10)
			}
			samples = append(samples, sample)
		}
		return samples
	}
}
