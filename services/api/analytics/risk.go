package analytics

const (
	highPollutionThreshold   = 7.0
	criticalReadingThreshold = 10.0
	severeReadingThreshold   = 15.0
)

// AssessRisk computes the dataset-wide exceedance picture. All
// bracket comparisons are strict, so an exceedance rate of exactly
// 30% classifies as high rather than critical.
func AssessRisk(readings []Reading, stations []StationSummary) RiskAssessment {
	assessment := RiskAssessment{
		OverallRisk: OverallLow,
		RiskFactors: make([]string, 0),
	}
	if len(readings) == 0 {
		return assessment
	}

	exceeding := 0
	severe := false
	for _, r := range readings {
		if r.PollutantA > highPollutionThreshold || r.PollutantB > highPollutionThreshold {
			exceeding++
		}
		if r.PollutantA > criticalReadingThreshold || r.PollutantB > criticalReadingThreshold {
			assessment.CriticalReadings++
		}
		if r.PollutantA > severeReadingThreshold || r.PollutantB > severeReadingThreshold {
			severe = true
		}
	}

	assessment.ExceedanceRate = 100 * float64(exceeding) / float64(len(readings))

	for _, s := range stations {
		switch s.RiskLevel {
		case RiskHigh:
			assessment.HighRiskStations++
		case RiskMedium:
			assessment.MediumRiskStations++
		}
	}

	switch {
	case assessment.ExceedanceRate > 30:
		assessment.OverallRisk = OverallCritical
	case assessment.ExceedanceRate > 15:
		assessment.OverallRisk = OverallHigh
	case assessment.ExceedanceRate > 5:
		assessment.OverallRisk = OverallModerate
	}

	if assessment.ExceedanceRate > 20 {
		assessment.RiskFactors = append(assessment.RiskFactors, "more than 20% of readings exceed the high-pollution threshold")
	}
	if assessment.HighRiskStations > 3 {
		assessment.RiskFactors = append(assessment.RiskFactors, "multiple stations report high average pollution")
	}
	if severe {
		assessment.RiskFactors = append(assessment.RiskFactors, "severe pollution readings present in the dataset")
	}

	return assessment
}
