package locate

import (
	"context"
	"errors"
	"time"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// Failure kinds for position queries.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnsupported         = errors.New("location source unsupported")
)

// Options controls a single position query.
type Options struct {
	// HighAccuracy asks the source for its best fix where it has a choice.
	HighAccuracy bool
	// MaximumAge is how stale a cached fix may be. Zero forces a fresh fix.
	MaximumAge time.Duration
	// Timeout bounds the query. Zero means no bound beyond the context.
	Timeout time.Duration
}

// Provider is a one-shot position source.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (geo.Point, error)
}

// withTimeout derives a bounded context from the query options.
func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// mapContextErr converts context cancellation into the package's failure kinds.
func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
