package stations

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// createStopsZip creates a minimal GTFS zip containing only stops.txt
func createStopsZip(t *testing.T, stopsCSV string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("stops.txt")
	_, _ = f.Write([]byte(stopsCSV))
	_ = w.Close()
	return buf.Bytes()
}

const testStopsCSV = "stop_id,stop_name,stop_desc,stop_lat,stop_lon,location_type\n" +
	"S1,Central Station,Main concourse,32.0800,34.7800,1\n" +
	"S2,Central Station Platform,,32.08001,34.78001,0\n" +
	"S3,Harbor Stop,,32.1200,34.7800,0\n" +
	"S4,Station Entrance,,32.0801,34.7801,2\n" +
	"S5,Broken Stop,,not-a-number,34.78,0\n"

func newTestIndex(t *testing.T) *StopIndex {
	t.Helper()
	idx, err := NewStopIndexFromBytes(createStopsZip(t, testStopsCSV), "TEST")
	if err != nil {
		t.Fatalf("Failed to build stop index: %v", err)
	}
	return idx
}

// TestStopIndex_Load verifies row filtering during ingestion
func TestStopIndex_Load(t *testing.T) {
	idx := newTestIndex(t)
	// S4 (entrance) and S5 (bad coords) are dropped.
	if idx.Count() != 3 {
		t.Errorf("Expected 3 indexed stops, got %d", idx.Count())
	}
}

// TestStopIndex_Search verifies substring matching and proximity dedup
func TestStopIndex_Search(t *testing.T) {
	idx := newTestIndex(t)

	results, err := idx.Search(context.Background(), "central")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// S1 and S2 are ~1.5 m apart so they collapse to one.
	if len(results) != 1 {
		t.Fatalf("Expected 1 result after dedup, got %d", len(results))
	}
	if results[0].Name != "Central Station" {
		t.Errorf("Expected Central Station, got %q", results[0].Name)
	}
	if !results[0].Transit {
		t.Error("GTFS stops must be transit-tagged")
	}
	t.Log("✓ Local GTFS index satisfies the search contract")
}

// TestStopIndex_Search_NoMatch verifies empty set is not an error
func TestStopIndex_Search_NoMatch(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search(context.Background(), "airport")
	if err != nil {
		t.Fatalf("No match must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

// TestStopIndex_Search_EmptyQuery verifies the user-error path
func TestStopIndex_Search_EmptyQuery(t *testing.T) {
	idx := newTestIndex(t)
	if _, err := idx.Search(context.Background(), ""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}
}

// TestStopIndex_NearbyAndClosest verifies distance ordering helpers
func TestStopIndex_NearbyAndClosest(t *testing.T) {
	idx := newTestIndex(t)
	from := geo.Point{Latitude: 32.0800, Longitude: 34.7800}

	nearby := idx.Nearby(from, 1.0)
	if len(nearby) != 2 {
		t.Fatalf("Expected 2 stops within 1 km, got %d", len(nearby))
	}
	if nearby[0].DistanceKM > nearby[1].DistanceKM {
		t.Error("Nearby results must be nearest-first")
	}

	closest := idx.Closest(from, 2)
	if len(closest) != 2 {
		t.Fatalf("Expected 2 closest stops, got %d", len(closest))
	}
	if closest[0].Name != "Central Station" {
		t.Errorf("Expected Central Station closest, got %q", closest[0].Name)
	}
}

// TestStopIndex_MissingStopsFile verifies a zip without stops.txt yields an
// empty index
func TestStopIndex_MissingStopsFile(t *testing.T) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("agency.txt")
	_, _ = f.Write([]byte("agency_id,agency_name\nTEST,Test Agency\n"))
	_ = w.Close()

	idx, err := NewStopIndexFromBytes(buf.Bytes(), "TEST")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if idx.Count() != 0 {
		t.Errorf("Expected empty index, got %d stops", idx.Count())
	}
}
