package stations

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// StopIndex is a SearchService backed by the stops of a static GTFS feed.
// Every result is transit-tagged by construction. The index is immutable
// after construction.
type StopIndex struct {
	agencyID string
	stops    []Station
}

// StationDistance pairs a station with its distance from a reference point.
type StationDistance struct {
	Station
	DistanceKM float64
}

// NewStopIndexFromConfig loads stops from a local GTFS zip or a static URL.
func NewStopIndexFromConfig(cfg config.GTFSConfig) (*StopIndex, error) {
	if cfg.LocalPath != "" {
		b, err := os.ReadFile(cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		return NewStopIndexFromBytes(b, cfg.AgencyID)
	}
	if cfg.StaticURL != "" {
		resp, err := http.Get(cfg.StaticURL)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d fetching GTFS feed", resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return NewStopIndexFromBytes(b, cfg.AgencyID)
	}
	return nil, fmt.Errorf("gtfs config needs localPath or staticURL")
}

// NewStopIndexFromBytes builds an index from an in-memory GTFS zip.
func NewStopIndexFromBytes(b []byte, agencyID string) (*StopIndex, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	idx := &StopIndex{agencyID: agencyID}
	for _, f := range zr.File {
		if strings.ToLower(f.Name) != "stops.txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		err = idx.consumeStops(rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// consumeStops parses stops.txt rows into Station values. Columns are
// resolved by header name since GTFS feeds vary in column order.
func (s *StopIndex) consumeStops(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading stops.txt header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading stops.txt: %w", err)
		}
		lat, errLat := strconv.ParseFloat(field(rec, "stop_lat"), 64)
		lon, errLon := strconv.ParseFloat(field(rec, "stop_lon"), 64)
		if errLat != nil || errLon != nil {
			continue
		}
		p := geo.Point{Latitude: lat, Longitude: lon}
		if p.Validate() != nil {
			continue
		}
		// location_type 1 is a parent station; 0/empty is a plain stop.
		// Entrances and generic nodes (2+) are not searchable destinations.
		if lt := field(rec, "location_type"); lt != "" {
			if v, err := strconv.Atoi(lt); err == nil && v > 1 {
				continue
			}
		}
		s.stops = append(s.stops, Station{
			Name:    field(rec, "stop_name"),
			Address: field(rec, "stop_desc"),
			Point:   p,
			Transit: true,
		})
	}
	return nil
}

// Search returns stops whose name contains the query, case-insensitively,
// de-duplicated by proximity.
func (s *StopIndex) Search(ctx context.Context, query string) ([]Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var out []Station
	for _, st := range s.stops {
		if strings.Contains(strings.ToLower(st.Name), needle) {
			out = append(out, st)
		}
	}
	return Deduplicate(out), nil
}

// Nearby returns stops within radiusKM of a point, nearest first.
func (s *StopIndex) Nearby(p geo.Point, radiusKM float64) []StationDistance {
	var out []StationDistance
	for _, st := range s.stops {
		if d := geo.DistanceKM(p, st.Point); d <= radiusKM {
			out = append(out, StationDistance{Station: st, DistanceKM: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKM < out[j].DistanceKM })
	return out
}

// Closest returns the n nearest stops to a point.
func (s *StopIndex) Closest(p geo.Point, n int) []StationDistance {
	out := make([]StationDistance, 0, len(s.stops))
	for _, st := range s.stops {
		out = append(out, StationDistance{Station: st, DistanceKM: geo.DistanceKM(p, st.Point)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKM < out[j].DistanceKM })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Count returns the number of indexed stops.
func (s *StopIndex) Count() int { return len(s.stops) }
