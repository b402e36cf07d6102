package analytics

import (
	"testing"
	"time"
)

func riskReading(a, b float64) Reading {
	return Reading{
		StationID:  "S1",
		SampleDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PollutantA: a,
		PollutantB: b,
	}
}

func nReadings(n int, a float64) []Reading {
	out := make([]Reading, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, riskReading(a, 0))
	}
	return out
}

func TestAssessRiskBrackets(t *testing.T) {
	tests := []struct {
		name      string
		exceeding int
		total     int
		want      OverallRisk
	}{
		{name: "exactly 30 percent is high not critical", exceeding: 3, total: 10, want: OverallHigh},
		{name: "above 30 percent is critical", exceeding: 4, total: 10, want: OverallCritical},
		{name: "exactly 15 percent is moderate", exceeding: 3, total: 20, want: OverallModerate},
		{name: "exactly 5 percent is low", exceeding: 1, total: 20, want: OverallLow},
		{name: "clean data is low", exceeding: 0, total: 10, want: OverallLow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			readings := nReadings(tc.total-tc.exceeding, 1)
			readings = append(readings, nReadings(tc.exceeding, 8)...)

			got := AssessRisk(readings, nil)
			if got.OverallRisk != tc.want {
				t.Fatalf("%d/%d exceeding: overall = %s, want %s", tc.exceeding, tc.total, got.OverallRisk, tc.want)
			}
			wantRate := 100 * float64(tc.exceeding) / float64(tc.total)
			if !almostEqual(got.ExceedanceRate, wantRate, 1e-9) {
				t.Fatalf("exceedance rate = %v, want %v", got.ExceedanceRate, wantRate)
			}
		})
	}
}

func TestAssessRiskEitherPollutantExceeds(t *testing.T) {
	readings := []Reading{
		riskReading(1, 8),  // B exceeds
		riskReading(8, 1),  // A exceeds
		riskReading(11, 0), // critical via A
		riskReading(0, 12), // critical via B
		riskReading(1, 1),
	}

	got := AssessRisk(readings, nil)
	if got.CriticalReadings != 2 {
		t.Fatalf("critical readings = %d, want 2", got.CriticalReadings)
	}
	if !almostEqual(got.ExceedanceRate, 80, 1e-9) {
		t.Fatalf("exceedance rate = %v, want 80", got.ExceedanceRate)
	}
}

func TestAssessRiskFactors(t *testing.T) {
	// 4 high-risk stations, >20% exceedance and one severe value
	// trigger all three independent factors.
	stations := []StationSummary{
		station("A", 0, 0, RiskHigh),
		station("B", 0, 0, RiskHigh),
		station("C", 0, 0, RiskHigh),
		station("D", 0, 0, RiskHigh),
		station("E", 0, 0, RiskMedium),
	}
	readings := append(nReadings(5, 1), riskReading(16, 0), riskReading(8, 0))

	got := AssessRisk(readings, stations)
	if len(got.RiskFactors) != 3 {
		t.Fatalf("risk factors = %v, want 3 entries", got.RiskFactors)
	}
	if got.HighRiskStations != 4 || got.MediumRiskStations != 1 {
		t.Fatalf("station counts = %d/%d, want 4/1", got.HighRiskStations, got.MediumRiskStations)
	}
}

func TestAssessRiskEmpty(t *testing.T) {
	got := AssessRisk(nil, nil)
	if got.OverallRisk != OverallLow || got.ExceedanceRate != 0 || len(got.RiskFactors) != 0 {
		t.Fatalf("empty input must degrade to a zeroed low assessment, got %+v", got)
	}
}
