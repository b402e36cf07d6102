package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pollumap/pollumap/services/api/analytics"
)

// Column layout of a station readings export:
// station_id, station_name, lat, lon, sample_dt, pol_a, pol_b, unit
const columnCount = 8

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Result reports what a parse run produced. Malformed rows are
// counted and skipped rather than failing the whole import.
type Result struct {
	Readings []analytics.Reading
	Skipped  int
}

// ParseReadings reads a readings CSV. The first row is treated as a
// header and discarded; quoted fields with embedded commas are
// handled by the csv reader.
func ParseReadings(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := Result{Readings: make([]analytics.Reading, 0)}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		if first {
			first = false
			continue
		}

		reading, ok := parseRow(record)
		if !ok {
			result.Skipped++
			continue
		}
		result.Readings = append(result.Readings, reading)
	}

	return result, nil
}

func parseRow(record []string) (analytics.Reading, bool) {
	if len(record) != columnCount {
		return analytics.Reading{}, false
	}

	stationID := strings.TrimSpace(record[0])
	if stationID == "" {
		return analytics.Reading{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return analytics.Reading{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return analytics.Reading{}, false
	}

	sampleDate, ok := parseDate(strings.TrimSpace(record[4]))
	if !ok {
		return analytics.Reading{}, false
	}

	polA, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return analytics.Reading{}, false
	}
	polB, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
	if err != nil {
		return analytics.Reading{}, false
	}

	return analytics.Reading{
		StationID:   stationID,
		StationName: strings.TrimSpace(record[1]),
		Lat:         lat,
		Lon:         lon,
		SampleDate:  sampleDate,
		PollutantA:  polA,
		PollutantB:  polB,
		Unit:        strings.TrimSpace(record[7]),
	}, true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
