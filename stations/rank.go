package stations

import (
	"sort"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// DuplicateRadiusM is the distance under which two candidates are
// considered the same physical station.
const DuplicateRadiusM = 50.0

// Rank orders candidates transit-tagged first, higher source weight within
// each group. When nothing is transit-tagged the input order is preserved,
// falling back to whatever ranking the source applied.
func Rank(in []Station) []Station {
	hasTransit := false
	for _, s := range in {
		if s.Transit {
			hasTransit = true
			break
		}
	}
	if !hasTransit {
		return in
	}
	out := make([]Station, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Transit != out[j].Transit {
			return out[i].Transit
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}

// Deduplicate drops candidates within DuplicateRadiusM of an earlier
// candidate, so the first (better ranked) occurrence wins.
func Deduplicate(in []Station) []Station {
	out := make([]Station, 0, len(in))
	for _, s := range in {
		dup := false
		for _, kept := range out {
			if geo.DistanceMeters(s.Point, kept.Point) <= DuplicateRadiusM {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
