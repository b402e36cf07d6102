package analytics

import "math"

const (
	earthRadiusKm     = 6371.0
	hotspotRadiusKm   = 50.0
	isolationRadiusKm = 25.0
)

// Haversine returns the great-circle distance in kilometers between
// two coordinate pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// FindHotspots emits one hotspot per high-risk station that has at
// least one other high-risk station within 50 km. Mutually nearby
// stations each produce their own entry; overlap is intentional so
// every station's neighborhood is visible on the map.
func FindHotspots(stations []StationSummary) []Hotspot {
	hotspots := make([]Hotspot, 0)
	for i, center := range stations {
		if center.RiskLevel != RiskHigh {
			continue
		}

		nearby := make([]StationSummary, 0)
		for j, other := range stations {
			if i == j || other.RiskLevel != RiskHigh {
				continue
			}
			d := Haversine(center.Location.Lat, center.Location.Lon, other.Location.Lat, other.Location.Lon)
			if d < hotspotRadiusKm {
				nearby = append(nearby, other)
			}
		}

		if len(nearby) > 0 {
			hotspots = append(hotspots, Hotspot{
				Center:         center,
				NearbyStations: nearby,
				Severity:       SeverityExtreme,
			})
		}
	}
	return hotspots
}

// FindIsolatedRisks emits high-risk stations that have no neighbor
// of any risk level within 25 km.
func FindIsolatedRisks(stations []StationSummary) []IsolatedRisk {
	isolated := make([]IsolatedRisk, 0)
	for i, station := range stations {
		if station.RiskLevel != RiskHigh {
			continue
		}

		hasNeighbor := false
		for j, other := range stations {
			if i == j {
				continue
			}
			d := Haversine(station.Location.Lat, station.Location.Lon, other.Location.Lat, other.Location.Lon)
			if d < isolationRadiusKm {
				hasNeighbor = true
				break
			}
		}

		if !hasNeighbor {
			isolated = append(isolated, IsolatedRisk{
				Station:  station,
				Severity: SeverityModerate,
			})
		}
	}
	return isolated
}
