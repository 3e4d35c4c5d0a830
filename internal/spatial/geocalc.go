package spatial

import "math"

// MetersPerDegreeLat is the approximate length of one degree of latitude.
const MetersPerDegreeLat = 111320.0

// Bounds is a lat/lon rectangle approximating a circular region.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// AddMetersToLatitude returns lat displaced north by the given number of
// meters (negative meters displace south).
func AddMetersToLatitude(lat, meters float64) float64 {
	return lat + meters/MetersPerDegreeLat
}

// AddMetersToLongitude returns lon displaced east by the given number of
// meters at the given latitude. A degree of longitude shrinks toward the
// poles, so the divisor is scaled by cos(lat).
func AddMetersToLongitude(lat, lon, meters float64) float64 {
	return lon + meters/(MetersPerDegreeLat*math.Cos(lat*math.Pi/180))
}

// BoundingBox converts a center point and radius in meters into a
// min/max lat/lon rectangle.
//
// This is a local small-displacement approximation, valid for radii up
// to tens of kilometers. It is not a geodesic computation and does not
// handle antimeridian or polar wraparound. Callers must pass a latitude
// in [-90, 90] and a longitude in [-180, 180]; out-of-range input is not
// clamped.
func BoundingBox(lat, lon, rangeMeters float64) Bounds {
	return Bounds{
		MinLat: AddMetersToLatitude(lat, -rangeMeters),
		MaxLat: AddMetersToLatitude(lat, rangeMeters),
		MinLon: AddMetersToLongitude(lat, lon, -rangeMeters),
		MaxLon: AddMetersToLongitude(lat, lon, rangeMeters),
	}
}
