package analytics

import (
	"math"
	"sort"
)

const (
	anomalyZThreshold = 2.5
	extremeZThreshold = 3.0
	maxAnomalies      = 10
)

// DetectAnomalies flags reading values whose z-score against the
// global per-pollutant statistics strictly exceeds the threshold.
// The result is sorted descending by z-score and capped at ten
// entries. A zero standard deviation yields no anomalies for that
// pollutant: with no variance there is nothing to score against.
func DetectAnomalies(readings []Reading, statsA, statsB Summary) []Anomaly {
	anomalies := make([]Anomaly, 0)
	for _, r := range readings {
		if a, ok := scoreValue(r, PollutantA, r.PollutantA, statsA); ok {
			anomalies = append(anomalies, a)
		}
		if a, ok := scoreValue(r, PollutantB, r.PollutantB, statsB); ok {
			anomalies = append(anomalies, a)
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})
	if len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}

func scoreValue(r Reading, p Pollutant, value float64, stats Summary) (Anomaly, bool) {
	if stats.StdDev == 0 {
		return Anomaly{}, false
	}

	z := math.Abs(value-stats.Avg) / stats.StdDev
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return Anomaly{}, false
	}
	if z <= anomalyZThreshold {
		return Anomaly{}, false
	}

	severity := SeverityModerate
	if z > extremeZThreshold {
		severity = SeverityExtreme
	}

	return Anomaly{
		StationID:   r.StationID,
		StationName: r.StationName,
		Date:        r.SampleDate,
		Pollutant:   p,
		Value:       value,
		ZScore:      z,
		Severity:    severity,
	}, true
}
