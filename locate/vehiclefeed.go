package locate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// VehicleFeed reads positions of one vehicle from a GTFS-Realtime
// VehiclePositions feed. It lets the tracker follow the bus the user is
// riding instead of the user's own device.
type VehicleFeed struct {
	url        string
	vehicleID  string
	tripID     string
	httpClient *http.Client

	mu      sync.Mutex
	lastFix geo.Point
	lastAt  time.Time
}

// NewVehicleFeed creates a provider that matches entities by vehicle ID,
// or by trip ID when vehicleID is empty.
func NewVehicleFeed(cfg config.GTFSRTConfig, vehicleID, tripID string) *VehicleFeed {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VehicleFeed{
		url:        cfg.VehiclePositionsURL,
		vehicleID:  vehicleID,
		tripID:     tripID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CurrentPosition fetches the feed and returns the tracked vehicle's fix.
// A cached fix no older than opts.MaximumAge is served without a fetch.
func (v *VehicleFeed) CurrentPosition(ctx context.Context, opts Options) (geo.Point, error) {
	if v.url == "" {
		return geo.Point{}, ErrUnsupported
	}

	v.mu.Lock()
	if opts.MaximumAge > 0 && !v.lastAt.IsZero() && time.Since(v.lastAt) <= opts.MaximumAge {
		fix := v.lastFix
		v.mu.Unlock()
		return fix, nil
	}
	v.mu.Unlock()

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	fm, err := v.fetchFeed(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return geo.Point{}, mapContextErr(ctxErr)
		}
		return geo.Point{}, err
	}

	for _, e := range fm.Entity {
		vp := e.Vehicle
		if vp == nil || vp.Position == nil {
			continue
		}
		if !v.matches(vp) {
			continue
		}
		fix := geo.Point{
			Latitude:  float64(vp.Position.GetLatitude()),
			Longitude: float64(vp.Position.GetLongitude()),
		}
		if err := fix.Validate(); err != nil {
			return geo.Point{}, fmt.Errorf("%w: feed coordinates invalid", ErrPositionUnavailable)
		}
		v.mu.Lock()
		v.lastFix = fix
		v.lastAt = time.Now()
		v.mu.Unlock()
		return fix, nil
	}
	return geo.Point{}, fmt.Errorf("%w: vehicle not in feed", ErrPositionUnavailable)
}

func (v *VehicleFeed) matches(vp *gtfsrtpb.VehiclePosition) bool {
	if v.vehicleID != "" {
		return vp.Vehicle != nil && vp.Vehicle.GetId() == v.vehicleID
	}
	if v.tripID != "" {
		return vp.Trip != nil && vp.Trip.GetTripId() == v.tripID
	}
	return false
}

func (v *VehicleFeed) fetchFeed(ctx context.Context) (*gtfsrtpb.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: HTTP %d", ErrPositionUnavailable, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	return &fm, nil
}
