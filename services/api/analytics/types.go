package analytics

import "time"

// Reading is one pollution measurement row as imported from CSV.
// A flat slice of readings is the sole input to the engine.
type Reading struct {
	StationID   string    `json:"station_id"`
	StationName string    `json:"station_name"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	SampleDate  time.Time `json:"sample_dt"`
	PollutantA  float64   `json:"pol_a"`
	PollutantB  float64   `json:"pol_b"`
	Unit        string    `json:"unit"`
}

// Pollutant identifies one of the two measured series.
type Pollutant string

const (
	PollutantA Pollutant = "pol_a"
	PollutantB Pollutant = "pol_b"
)

// RiskLevel classifies a station by its average pollutant load.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Location is a station coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationSummary aggregates all readings sharing one station id.
// Recomputed fresh on every analysis call; nothing is cached.
type StationSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      Location  `json:"location"`
	AvgPollutantA float64   `json:"avg_pol_a"`
	AvgPollutantB float64   `json:"avg_pol_b"`
	RecordCount   int       `json:"record_count"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Variance      float64   `json:"variance"`
}

// Severity grades an anomaly by how far it sits from the mean.
type Severity string

const (
	SeverityModerate Severity = "moderate"
	SeverityExtreme  Severity = "extreme"
)

// Anomaly is a single reading value flagged by the z-score detector.
type Anomaly struct {
	StationID   string    `json:"station_id"`
	StationName string    `json:"station_name"`
	Date        time.Time `json:"date"`
	Pollutant   Pollutant `json:"pollutant"`
	Value       float64   `json:"value"`
	ZScore      float64   `json:"z_score"`
	Severity    Severity  `json:"severity"`
}

// TrendDirection is the sign of a fitted daily-mean slope.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
)

// Significance grades a trend by slope magnitude.
type Significance string

const (
	SignificanceModerate Significance = "moderate"
	SignificanceHigh     Significance = "high"
)

// Trend is a per-pollutant least-squares fit over day-bucketed means.
type Trend struct {
	Pollutant    Pollutant      `json:"pollutant"`
	Direction    TrendDirection `json:"direction"`
	Slope        float64        `json:"slope"`
	Significance Significance   `json:"significance"`
}

// Hotspot is a high-risk station with at least one other high-risk
// station nearby. One hotspot is emitted per center, so mutually
// nearby stations produce overlapping entries.
type Hotspot struct {
	Center         StationSummary   `json:"center"`
	NearbyStations []StationSummary `json:"nearby_stations"`
	Severity       Severity         `json:"severity"`
}

// IsolatedRisk is a high-risk station with no neighbor of any risk
// level within the isolation radius.
type IsolatedRisk struct {
	Station  StationSummary `json:"station"`
	Severity Severity       `json:"severity"`
}

// OverallRisk classifies the whole dataset by exceedance rate.
type OverallRisk string

const (
	OverallLow      OverallRisk = "low"
	OverallModerate OverallRisk = "moderate"
	OverallHigh     OverallRisk = "high"
	OverallCritical OverallRisk = "critical"
)

// RiskAssessment is the dataset-wide exceedance picture.
type RiskAssessment struct {
	OverallRisk        OverallRisk `json:"overall_risk"`
	ExceedanceRate     float64     `json:"exceedance_rate"`
	HighRiskStations   int         `json:"high_risk_stations"`
	MediumRiskStations int         `json:"medium_risk_stations"`
	CriticalReadings   int         `json:"critical_readings"`
	RiskFactors        []string    `json:"risk_factors"`
}

// PollutantForecast compares the recent-window mean against the
// global mean for one pollutant.
type PollutantForecast struct {
	RecentAvg float64        `json:"recent_avg"`
	GlobalAvg float64        `json:"global_avg"`
	Trend     TrendDirection `json:"trend"`
}

// RiskForecast is the exceedance outlook over the recent window.
type RiskForecast struct {
	ExceedanceProbability float64     `json:"exceedance_probability"`
	RiskLevel             OverallRisk `json:"risk_level"`
}

// Forecast is the naive short-term outlook built from the most
// recent slice of readings.
type Forecast struct {
	WindowSize int               `json:"window_size"`
	PollutantA PollutantForecast `json:"pol_a"`
	PollutantB PollutantForecast `json:"pol_b"`
	Risk       RiskForecast      `json:"risk"`
}

// Analysis is the full engine output consumed by the dashboard and
// embedded into the chat prompt.
type Analysis struct {
	TotalReadings int              `json:"total_readings"`
	StationCount  int              `json:"station_count"`
	From          time.Time        `json:"from,omitempty"`
	To            time.Time        `json:"to,omitempty"`
	PollutantA    Summary          `json:"pol_a"`
	PollutantB    Summary          `json:"pol_b"`
	Stations      []StationSummary `json:"stations"`
	Anomalies     []Anomaly        `json:"anomalies"`
	Trends        []Trend          `json:"trends"`
	Hotspots      []Hotspot        `json:"hotspots"`
	IsolatedRisks []IsolatedRisk   `json:"isolated_risks"`
	Risk          RiskAssessment   `json:"risk"`
	Forecast      *Forecast        `json:"forecast,omitempty"`
}
