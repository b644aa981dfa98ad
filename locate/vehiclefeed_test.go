package locate

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
)

// buildVehicleFeed marshals a VehiclePositions feed with a single vehicle
func buildVehicleFeed(t *testing.T, vehicleID, tripID string, lat, lon float32) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("e1"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Vehicle: &gtfsrtpb.VehicleDescriptor{Id: proto.String(vehicleID)},
					Trip:    &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)},
					Position: &gtfsrtpb.Position{
						Latitude:  proto.Float32(lat),
						Longitude: proto.Float32(lon),
					},
				},
			},
		},
	}
	b, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("Failed to marshal feed: %v", err)
	}
	return b
}

func serveFeed(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestVehicleFeed_MatchByVehicleID verifies position extraction by vehicle
func TestVehicleFeed_MatchByVehicleID(t *testing.T) {
	feed := buildVehicleFeed(t, "bus-42", "T1", 32.08, 34.78)
	srv := serveFeed(t, feed, http.StatusOK)

	vf := NewVehicleFeed(config.GTFSRTConfig{VehiclePositionsURL: srv.URL}, "bus-42", "")
	p, err := vf.CurrentPosition(context.Background(), Options{HighAccuracy: true})
	if err != nil {
		t.Fatalf("CurrentPosition failed: %v", err)
	}
	if math.Abs(p.Latitude-32.08) > 1e-4 || math.Abs(p.Longitude-34.78) > 1e-4 {
		t.Errorf("Unexpected position %v", p)
	}
	t.Log("✓ Vehicle position resolved from GTFS-RT feed")
}

// TestVehicleFeed_MatchByTripID verifies the trip fallback match
func TestVehicleFeed_MatchByTripID(t *testing.T) {
	feed := buildVehicleFeed(t, "bus-42", "T1", 32.08, 34.78)
	srv := serveFeed(t, feed, http.StatusOK)

	vf := NewVehicleFeed(config.GTFSRTConfig{VehiclePositionsURL: srv.URL}, "", "T1")
	if _, err := vf.CurrentPosition(context.Background(), Options{}); err != nil {
		t.Fatalf("CurrentPosition by trip failed: %v", err)
	}
}

// TestVehicleFeed_VehicleMissing verifies ErrPositionUnavailable
func TestVehicleFeed_VehicleMissing(t *testing.T) {
	feed := buildVehicleFeed(t, "bus-42", "T1", 32.08, 34.78)
	srv := serveFeed(t, feed, http.StatusOK)

	vf := NewVehicleFeed(config.GTFSRTConfig{VehiclePositionsURL: srv.URL}, "bus-99", "")
	if _, err := vf.CurrentPosition(context.Background(), Options{}); !errors.Is(err, ErrPositionUnavailable) {
		t.Errorf("Expected ErrPositionUnavailable, got %v", err)
	}
}

// TestVehicleFeed_NoURL verifies ErrUnsupported
func TestVehicleFeed_NoURL(t *testing.T) {
	vf := NewVehicleFeed(config.GTFSRTConfig{}, "bus-42", "")
	if _, err := vf.CurrentPosition(context.Background(), Options{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

// TestVehicleFeed_Forbidden verifies ErrPermissionDenied on HTTP 403
func TestVehicleFeed_Forbidden(t *testing.T) {
	srv := serveFeed(t, nil, http.StatusForbidden)
	vf := NewVehicleFeed(config.GTFSRTConfig{VehiclePositionsURL: srv.URL}, "bus-42", "")
	if _, err := vf.CurrentPosition(context.Background(), Options{}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}

// TestVehicleFeed_CachedFix verifies MaximumAge serves the cached fix
func TestVehicleFeed_CachedFix(t *testing.T) {
	feed := buildVehicleFeed(t, "bus-42", "T1", 32.08, 34.78)
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		_, _ = w.Write(feed)
	}))
	t.Cleanup(srv.Close)

	vf := NewVehicleFeed(config.GTFSRTConfig{VehiclePositionsURL: srv.URL}, "bus-42", "")
	if _, err := vf.CurrentPosition(context.Background(), Options{}); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if _, err := vf.CurrentPosition(context.Background(), Options{MaximumAge: time.Minute}); err != nil {
		t.Fatalf("Cached fetch failed: %v", err)
	}
	if fetches != 1 {
		t.Errorf("Expected 1 network fetch with a fresh cache, got %d", fetches)
	}
	// MaximumAge zero must force a fresh fetch.
	if _, err := vf.CurrentPosition(context.Background(), Options{}); err != nil {
		t.Fatalf("Forced fetch failed: %v", err)
	}
	if fetches != 2 {
		t.Errorf("Expected forced refetch with MaximumAge 0, got %d fetches", fetches)
	}
}
