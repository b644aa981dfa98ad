package locate

import (
	"context"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// Replay plays back a recorded track one fix per query. It is used for
// demos and for exercising the tracker without a live source.
type Replay struct {
	mu    sync.Mutex
	fixes []geo.Point
	next  int
}

// NewReplay creates a replay source over an in-memory track.
func NewReplay(fixes []geo.Point) *Replay {
	return &Replay{fixes: fixes}
}

// NewReplayFromFile loads a YAML track file: a list of {lat, lon, accuracy}.
func NewReplayFromFile(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixes []geo.Point
	if err := yaml.Unmarshal(data, &fixes); err != nil {
		return nil, err
	}
	for _, f := range fixes {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	return &Replay{fixes: fixes}, nil
}

// CurrentPosition returns the next recorded fix. An exhausted track reports
// ErrPositionUnavailable, matching a receiver that lost signal.
func (r *Replay) CurrentPosition(ctx context.Context, opts Options) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, mapContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next >= len(r.fixes) {
		return geo.Point{}, ErrPositionUnavailable
	}
	fix := r.fixes[r.next]
	r.next++
	return fix, nil
}

// Rewind restarts the track from the first fix.
func (r *Replay) Rewind() {
	r.mu.Lock()
	r.next = 0
	r.mu.Unlock()
}

// Remaining reports how many fixes are left.
func (r *Replay) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fixes) - r.next
}
