package analytics

import (
	"math"
	"sort"
)

const (
	minTrendBuckets  = 3
	trendSlopeMin    = 0.01
	trendSlopeStrong = 0.05
)

type dayBucket struct {
	sumA, sumB float64
	count      int
}

// AnalyzeTrends buckets readings by calendar day, averages each
// bucket per pollutant and fits an ordinary least-squares line over
// the chronological bucket sequence. Fewer than three buckets yields
// no trends. A trend is emitted only when the slope magnitude
// strictly exceeds 0.01.
func AnalyzeTrends(readings []Reading) []Trend {
	buckets := make(map[string]*dayBucket)
	for _, r := range readings {
		day := r.SampleDate.Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{}
			buckets[day] = b
		}
		b.sumA += r.PollutantA
		b.sumB += r.PollutantB
		b.count++
	}

	trends := make([]Trend, 0, 2)
	if len(buckets) < minTrendBuckets {
		return trends
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	meansA := make([]float64, len(days))
	meansB := make([]float64, len(days))
	for i, day := range days {
		b := buckets[day]
		meansA[i] = b.sumA / float64(b.count)
		meansB[i] = b.sumB / float64(b.count)
	}

	if t, ok := fitTrend(PollutantA, meansA); ok {
		trends = append(trends, t)
	}
	if t, ok := fitTrend(PollutantB, meansB); ok {
		trends = append(trends, t)
	}
	return trends
}

func fitTrend(p Pollutant, dailyMeans []float64) (Trend, bool) {
	slope := leastSquaresSlope(dailyMeans)
	if math.Abs(slope) <= trendSlopeMin {
		return Trend{}, false
	}

	direction := TrendIncreasing
	if slope < 0 {
		direction = TrendDecreasing
	}
	significance := SignificanceModerate
	if math.Abs(slope) > trendSlopeStrong {
		significance = SignificanceHigh
	}

	return Trend{
		Pollutant:    p,
		Direction:    direction,
		Slope:        slope,
		Significance: significance,
	}, true
}

// leastSquaresSlope fits y over x = 0..n-1 using the closed-form
// slope formula. The denominator cannot be zero for n >= 2, but the
// guard keeps a degenerate call from dividing by zero.
func leastSquaresSlope(ys []float64) float64 {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
