package geo

import "math"

// EarthRadiusKM is the mean Earth radius used for great-circle math.
const EarthRadiusKM = 6371.0

// DistanceKM returns the haversine great-circle distance between two points
// in kilometers. It is symmetric and zero for identical points.
func DistanceKM(a, b Point) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	la1 := a.Latitude * math.Pi / 180
	la2 := b.Latitude * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKM * c
}

// DistanceMeters returns the haversine distance in meters.
func DistanceMeters(a, b Point) float64 {
	return DistanceKM(a, b) * 1000
}
