package geo

import (
	"math"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DefaultSpeedKmh is the walking-pace fallback used for arrival estimates
// when the caller supplies no speed.
const DefaultSpeedKmh = 5.0

// Distance returns the great-circle distance between two coordinates in
// kilometers, computed with the haversine formula.
//
// Parameters:
//   - a: First coordinate
//   - b: Second coordinate
//
// Returns:
//   - float64: Distance in kilometers, always >= 0
func Distance(a, b types.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// EstimateArrivalMinutes estimates travel time for a distance at the given
// speed, rounded to whole minutes and clamped to a minimum of zero.
//
// A non-positive speed falls back to DefaultSpeedKmh. The estimate is used
// purely for display; it carries no invariant beyond non-negativity.
//
// Parameters:
//   - distanceKm: Distance in kilometers
//   - speedKmh: Travel speed in km/h; <= 0 selects the default
//
// Returns:
//   - int: Estimated minutes, >= 0
func EstimateArrivalMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}

	minutes := int(math.Round(distanceKm / speedKmh * 60))
	if minutes < 0 {
		return 0
	}

	return minutes
}
