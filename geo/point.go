package geo

import (
	"fmt"
	"math"
)

// Point is a WGS84 coordinate in decimal degrees.
// AccuracyM is an optional accuracy radius in meters; 0 means unknown.
type Point struct {
	Latitude  float64 `yaml:"lat" json:"lat"`
	Longitude float64 `yaml:"lon" json:"lon"`
	AccuracyM float64 `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`
}

// Validate checks that the coordinate is a real point on the globe.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return fmt.Errorf("latitude is not a finite number")
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("longitude is not a finite number")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %.6f out of range [-90,90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %.6f out of range [-180,180]", p.Longitude)
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}
