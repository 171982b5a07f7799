// Package geo provides the great-circle proximity test used to decide
// whether a planted message is "here".
package geo

import (
	"math"

	"hereafter/pkg/models"
)

// EarthRadiusMeters is the mean spherical earth radius.
const EarthRadiusMeters = 6371000.0

// DefaultRadiusMeters is the radius within which a message counts as
// nearby when the caller does not override it.
const DefaultRadiusMeters = 150.0

// Distance returns the haversine (great-circle) distance between two
// coordinates in meters. Symmetric: Distance(a,b) == Distance(b,a).
func Distance(a, b models.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// IsNear reports whether a and b are within radiusMeters of each other
// along the surface. The comparison is inclusive: distance == radius
// counts as near.
func IsNear(a, b models.Coordinate, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}
