package locate

import (
	"context"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// Fixed always reports the same point.
type Fixed struct {
	Point geo.Point
}

// CurrentPosition returns the fixed point.
func (f Fixed) CurrentPosition(ctx context.Context, opts Options) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, mapContextErr(err)
	}
	return f.Point, nil
}
