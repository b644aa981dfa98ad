package geo

import (
	"fmt"
	"math"
)

// WalkingSpeedKMH is the assumed pedestrian speed for walk-time estimates.
const WalkingSpeedKMH = 5.0

// FormatDistance renders a distance for display: sub-kilometer values as
// rounded meters, everything else as kilometers with two decimals.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.2f km", km)
}

// WalkTime estimates how long the distance takes on foot at WalkingSpeedKMH
// and buckets the result into a short display string.
func WalkTime(km float64) string {
	minutes := int(math.Round(km / WalkingSpeedKMH * 60))
	switch {
	case minutes < 1:
		return "<1 min"
	case minutes == 1:
		return "1 min"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%d hours %d minutes", h, m)
}
