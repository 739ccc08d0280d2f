package scan

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadReplay reads a replay file and returns one canonical
// "pan,tilt,duration" line per usable row. Blank rows and rows with fewer
// than three fields are skipped silently; they are routine in files pasted
// out of a serial monitor.
func LoadReplay(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read replay file %s: %w", path, err)
	}

	var lines []string
	for _, row := range records {
		if line, ok := NormalizeRow(row); ok {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
