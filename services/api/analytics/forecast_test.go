package analytics

import (
	"testing"
	"time"
)

func timedReading(offsetHours int, a float64) Reading {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return Reading{
		StationID:  "S1",
		SampleDate: base.Add(time.Duration(offsetHours) * time.Hour),
		PollutantA: a,
	}
}

func TestShortTermForecastSkipsSmallWindows(t *testing.T) {
	tests := []struct {
		name  string
		total int
		skip  bool
	}{
		{name: "30 readings gives window 9", total: 30, skip: true},
		{name: "34 readings gives window 10, still skipped", total: 34, skip: true},
		{name: "37 readings gives window 11", total: 37, skip: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			readings := make([]Reading, 0, tc.total)
			for i := 0; i < tc.total; i++ {
				readings = append(readings, timedReading(i, 1))
			}

			got := ShortTermForecast(readings, Summarize([]float64{1}), Summary{})
			if tc.skip && got != nil {
				t.Fatalf("expected forecast to be skipped, got %+v", got)
			}
			if !tc.skip && got == nil {
				t.Fatal("expected a forecast, got nil")
			}
		})
	}
}

func TestShortTermForecastWindowCap(t *testing.T) {
	readings := make([]Reading, 0, 400)
	for i := 0; i < 400; i++ {
		readings = append(readings, timedReading(i, 1))
	}

	got := ShortTermForecast(readings, Summary{Avg: 1}, Summary{})
	if got == nil {
		t.Fatal("expected a forecast")
	}
	if got.WindowSize != forecastMaxWindow {
		t.Fatalf("window = %d, want cap %d", got.WindowSize, forecastMaxWindow)
	}
}

func TestShortTermForecastTrendAndRisk(t *testing.T) {
	// 50 readings: the 15 most recent all read 9, the older 35 read 1.
	// Recent mean 9 beats the global mean 3.4, and every window
	// reading exceeds the threshold.
	readings := make([]Reading, 0, 50)
	for i := 0; i < 35; i++ {
		readings = append(readings, timedReading(i, 1))
	}
	for i := 35; i < 50; i++ {
		readings = append(readings, timedReading(i, 9))
	}

	valuesA := make([]float64, 0, len(readings))
	for _, r := range readings {
		valuesA = append(valuesA, r.PollutantA)
	}

	got := ShortTermForecast(readings, Summarize(valuesA), Summary{})
	if got == nil {
		t.Fatal("expected a forecast")
	}
	if got.WindowSize != 15 {
		t.Fatalf("window = %d, want 15", got.WindowSize)
	}
	if got.PollutantA.Trend != TrendIncreasing {
		t.Fatalf("pollutant A trend = %s, want increasing", got.PollutantA.Trend)
	}
	if !almostEqual(got.PollutantA.RecentAvg, 9, 1e-9) {
		t.Fatalf("recent avg = %v, want 9", got.PollutantA.RecentAvg)
	}
	if !almostEqual(got.Risk.ExceedanceProbability, 100, 1e-9) {
		t.Fatalf("exceedance probability = %v, want 100", got.Risk.ExceedanceProbability)
	}
	if got.Risk.RiskLevel != OverallHigh {
		t.Fatalf("risk level = %s, want high", got.Risk.RiskLevel)
	}

	// Pollutant B is flat at zero; a recent mean equal to the global
	// mean reads as decreasing by definition of the heuristic.
	if got.PollutantB.Trend != TrendDecreasing {
		t.Fatalf("pollutant B trend = %s, want decreasing", got.PollutantB.Trend)
	}
}
