// Package importer ingests gauge CSV exports into the local cache. Vendors
// disagree on header names and timestamp formats, so parsing is permissive:
// unrecognized or malformed rows are skipped, never fatal.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/oilscope/oilscope/internal/core"
)

var (
	timeAliases   = []string{"t", "Time", "timestamp", "Read Date"}
	gallonAliases = []string{"g", "Gallons", "volume", "Tank Volume"}

	timestampFormats = []string{
		"2006-01-02 15:04:05",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"2006-01-02 15:04",
	}
)

// ParseReadingsCSV reads raw (timestamp, gallons) rows. Classification flags
// are left unset; callers run FlagReadings over the result.
func ParseReadingsCSV(r io.Reader) ([]core.TankReading, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("importer: reading header: %w", err)
	}

	tsCol := findColumn(header, timeAliases)
	galCol := findColumn(header, gallonAliases)
	if tsCol < 0 || galCol < 0 {
		return nil, fmt.Errorf("importer: no recognized timestamp/gallons columns in header %v", header)
	}

	var out []core.TankReading
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if tsCol >= len(row) || galCol >= len(row) {
			continue
		}

		ts, ok := parseTimestamp(strings.Trim(row[tsCol], `"`))
		if !ok {
			continue
		}
		gallons, err := strconv.ParseFloat(strings.TrimSpace(row[galCol]), 64)
		if err != nil {
			continue
		}

		out = append(out, core.TankReading{Timestamp: ts, Gallons: gallons})
	}
	return out, nil
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, a := range aliases {
			if h == a {
				return i
			}
		}
	}
	return -1
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
