package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	stationRiskHigh   = 7.0
	stationRiskMedium = 3.0
)

// SummarizeStations groups readings by station id and aggregates
// each group. The variance field is the population variance of the
// station's pollutant A series. Output is sorted by station id so
// repeated calls on the same input are identical.
func SummarizeStations(readings []Reading) []StationSummary {
	type group struct {
		name       string
		lat, lon   float64
		sumA, sumB float64
		valuesA    []float64
		count      int
	}

	groups := make(map[string]*group)
	for _, r := range readings {
		g, ok := groups[r.StationID]
		if !ok {
			g = &group{name: r.StationName, lat: r.Lat, lon: r.Lon}
			groups[r.StationID] = g
		}
		g.sumA += r.PollutantA
		g.sumB += r.PollutantB
		g.valuesA = append(g.valuesA, r.PollutantA)
		g.count++
	}

	stations := make([]StationSummary, 0, len(groups))
	for id, g := range groups {
		avgA := g.sumA / float64(g.count)
		avgB := g.sumB / float64(g.count)

		risk := RiskLow
		peak := avgA
		if avgB > peak {
			peak = avgB
		}
		switch {
		case peak > stationRiskHigh:
			risk = RiskHigh
		case peak > stationRiskMedium:
			risk = RiskMedium
		}

		stations = append(stations, StationSummary{
			ID:            id,
			Name:          g.name,
			Location:      Location{Lat: g.lat, Lon: g.lon},
			AvgPollutantA: avgA,
			AvgPollutantB: avgB,
			RecordCount:   g.count,
			RiskLevel:     risk,
			Variance:      Summarize(g.valuesA).Variance,
		})
	}

	sort.Slice(stations, func(i, j int) bool {
		return stations[i].ID < stations[j].ID
	})
	return stations
}

// Analyze runs the full engine over a reading snapshot. An empty
// snapshot returns a structurally valid zeroed analysis without
// invoking the sub-analyzers, which all assume non-empty input.
// The function is pure: same snapshot in, same analysis out.
func Analyze(readings []Reading) Analysis {
	if len(readings) == 0 {
		return Analysis{
			Stations:      make([]StationSummary, 0),
			Anomalies:     make([]Anomaly, 0),
			Trends:        make([]Trend, 0),
			Hotspots:      make([]Hotspot, 0),
			IsolatedRisks: make([]IsolatedRisk, 0),
			Risk: RiskAssessment{
				OverallRisk: OverallLow,
				RiskFactors: make([]string, 0),
			},
		}
	}

	valuesA := make([]float64, len(readings))
	valuesB := make([]float64, len(readings))
	from := readings[0].SampleDate
	to := readings[0].SampleDate
	for i, r := range readings {
		valuesA[i] = r.PollutantA
		valuesB[i] = r.PollutantB
		if r.SampleDate.Before(from) {
			from = r.SampleDate
		}
		if r.SampleDate.After(to) {
			to = r.SampleDate
		}
	}

	statsA := Summarize(valuesA)
	statsB := Summarize(valuesB)
	stations := SummarizeStations(readings)

	return Analysis{
		TotalReadings: len(readings),
		StationCount:  len(stations),
		From:          from,
		To:            to,
		PollutantA:    statsA,
		PollutantB:    statsB,
		Stations:      stations,
		Anomalies:     DetectAnomalies(readings, statsA, statsB),
		Trends:        AnalyzeTrends(readings),
		Hotspots:      FindHotspots(stations),
		IsolatedRisks: FindIsolatedRisks(stations),
		Risk:          AssessRisk(readings, stations),
		Forecast:      ShortTermForecast(readings, statsA, statsB),
	}
}

// Prompt renders the analysis as the natural-language context block
// embedded verbatim into the chat system prompt.
func (a Analysis) Prompt() string {
	var b strings.Builder

	b.WriteString("POLLUTION DATA SUMMARY\n")
	if a.TotalReadings == 0 {
		b.WriteString("No readings loaded.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Readings: %d from %d stations (%s to %s)\n",
		a.TotalReadings, a.StationCount,
		a.From.Format(time.DateOnly), a.To.Format(time.DateOnly))
	fmt.Fprintf(&b, "Pollutant A: avg %.2f, min %.2f, max %.2f, std dev %.2f\n",
		a.PollutantA.Avg, a.PollutantA.Min, a.PollutantA.Max, a.PollutantA.StdDev)
	fmt.Fprintf(&b, "Pollutant B: avg %.2f, min %.2f, max %.2f, std dev %.2f\n",
		a.PollutantB.Avg, a.PollutantB.Min, a.PollutantB.Max, a.PollutantB.StdDev)

	fmt.Fprintf(&b, "Overall risk: %s (exceedance rate %.1f%%, %d critical readings, %d high-risk and %d medium-risk stations)\n",
		a.Risk.OverallRisk, a.Risk.ExceedanceRate, a.Risk.CriticalReadings,
		a.Risk.HighRiskStations, a.Risk.MediumRiskStations)
	for _, factor := range a.Risk.RiskFactors {
		fmt.Fprintf(&b, "Risk factor: %s\n", factor)
	}

	if len(a.Anomalies) > 0 {
		fmt.Fprintf(&b, "Anomalies (top %d by z-score):\n", len(a.Anomalies))
		for _, an := range a.Anomalies {
			fmt.Fprintf(&b, "- %s (%s) %s=%.2f on %s, z=%.2f, %s\n",
				an.StationName, an.StationID, an.Pollutant, an.Value,
				an.Date.Format(time.DateOnly), an.ZScore, an.Severity)
		}
	}

	for _, t := range a.Trends {
		fmt.Fprintf(&b, "Trend: %s is %s (slope %.3f per day, %s significance)\n",
			t.Pollutant, t.Direction, t.Slope, t.Significance)
	}

	for _, h := range a.Hotspots {
		fmt.Fprintf(&b, "Hotspot: %s with %d nearby high-risk stations\n",
			h.Center.Name, len(h.NearbyStations))
	}
	for _, iso := range a.IsolatedRisks {
		fmt.Fprintf(&b, "Isolated high-risk station: %s\n", iso.Station.Name)
	}

	if a.Forecast != nil {
		f := a.Forecast
		fmt.Fprintf(&b, "Short-term outlook (last %d readings): pollutant A %s (%.2f vs %.2f), pollutant B %s (%.2f vs %.2f), exceedance probability %.1f%% (%s)\n",
			f.WindowSize,
			f.PollutantA.Trend, f.PollutantA.RecentAvg, f.PollutantA.GlobalAvg,
			f.PollutantB.Trend, f.PollutantB.RecentAvg, f.PollutantB.GlobalAvg,
			f.Risk.ExceedanceProbability, f.Risk.RiskLevel)
	}

	return b.String()
}
