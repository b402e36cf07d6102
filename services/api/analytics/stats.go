package analytics

import "math"

// Summary holds descriptive statistics for one numeric series.
type Summary struct {
	Avg      float64 `json:"avg"`
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
}

// Summarize computes population statistics over values. An empty
// slice yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sum := 0.0
	max := values[0]
	min := values[0]
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	avg := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))

	return Summary{
		Avg:      avg,
		Max:      max,
		Min:      min,
		StdDev:   math.Sqrt(variance),
		Variance: variance,
	}
}
