package analytics

import "sort"

const (
	forecastMaxWindow = 100
	forecastFraction  = 0.3
	forecastMinWindow = 10
)

// ShortTermForecast re-aggregates the most recent slice of readings
// and compares it against the global averages. The window is
// min(100, floor(0.3*n)); forecasting is skipped (nil) unless the
// window holds more than ten records. The trend is a single-point
// comparison of recent mean vs global mean, deliberately naive; it
// is an outlook hint, not a regression.
func ShortTermForecast(readings []Reading, statsA, statsB Summary) *Forecast {
	window := int(forecastFraction * float64(len(readings)))
	if window > forecastMaxWindow {
		window = forecastMaxWindow
	}
	if window <= forecastMinWindow {
		return nil
	}

	sorted := make([]Reading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SampleDate.After(sorted[j].SampleDate)
	})
	recent := sorted[:window]

	var sumA, sumB float64
	exceeding := 0
	for _, r := range recent {
		sumA += r.PollutantA
		sumB += r.PollutantB
		if r.PollutantA > highPollutionThreshold || r.PollutantB > highPollutionThreshold {
			exceeding++
		}
	}
	recentAvgA := sumA / float64(window)
	recentAvgB := sumB / float64(window)

	probability := 100 * float64(exceeding) / float64(window)
	riskLevel := OverallLow
	switch {
	case probability > 40:
		riskLevel = OverallHigh
	case probability > 20:
		riskLevel = OverallModerate
	}

	return &Forecast{
		WindowSize: window,
		PollutantA: PollutantForecast{
			RecentAvg: recentAvgA,
			GlobalAvg: statsA.Avg,
			Trend:     forecastTrend(recentAvgA, statsA.Avg),
		},
		PollutantB: PollutantForecast{
			RecentAvg: recentAvgB,
			GlobalAvg: statsB.Avg,
			Trend:     forecastTrend(recentAvgB, statsB.Avg),
		},
		Risk: RiskForecast{
			ExceedanceProbability: probability,
			RiskLevel:             riskLevel,
		},
	}
}

func forecastTrend(recent, global float64) TrendDirection {
	if recent > global {
		return TrendIncreasing
	}
	return TrendDecreasing
}
