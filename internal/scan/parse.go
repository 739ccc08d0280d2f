package scan

import (
	"fmt"
	"strconv"
	"strings"
)

// Measurement is one parsed reading from the scanning rig: servo pan and tilt
// angles in degrees plus the raw echo duration in sensor units. Measurements
// are transient; they feed the transform pipeline and are not retained.
type Measurement struct {
	PanDeg   float64
	TiltDeg  float64
	Duration float64
}

// ParseLine parses one "pan,tilt,duration" line from the rig. The line must
// split on commas into exactly three fields, each a decimal number after
// trimming surrounding whitespace. The returned error carries the offending
// raw text; callers warn and discard, never abort the stream.
func ParseLine(line string) (Measurement, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return Measurement{}, fmt.Errorf("expected 3 fields, got %d in %q", len(fields), line)
	}

	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Measurement{}, fmt.Errorf("field %d of %q is not numeric: %w", i+1, line, err)
		}
		vals[i] = v
	}

	return Measurement{PanDeg: vals[0], TiltDeg: vals[1], Duration: vals[2]}, nil
}

// NormalizeRow collapses one tabular replay row into a canonical
// "pan,tilt,duration" line. Rows pasted out of a serial monitor arrive either
// as a single comma-joined cell or as pre-split cells; both normalize to the
// same three-field line. Rows with fewer than three usable fields report
// ok=false and are skipped without error.
func NormalizeRow(row []string) (line string, ok bool) {
	var parts []string
	if len(row) == 1 && strings.Contains(row[0], ",") {
		for _, p := range strings.Split(row[0], ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	} else {
		for _, p := range row {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}

	if len(parts) < 3 {
		return "", false
	}
	return strings.Join(parts[:3], ","), true
}
