package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
	"github.com/theoremus-urban-solutions/stop-proximity/locate"
	"github.com/theoremus-urban-solutions/stop-proximity/stations"
)

// ErrNoStation is returned when Start is called before a station is selected.
var ErrNoStation = errors.New("no station selected")

// Options tunes the polling loop and alert zone.
type Options struct {
	PollInterval     time.Duration
	LocationTimeout  time.Duration
	AlertThresholdKM float64
}

// OptionsFromConfig converts a TrackerConfig section into Options.
func OptionsFromConfig(cfg config.TrackerConfig) Options {
	return Options{
		PollInterval:     time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		LocationTimeout:  time.Duration(cfg.LocationTimeoutMS) * time.Millisecond,
		AlertThresholdKM: cfg.AlertThresholdKM,
	}
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Duration(config.DefaultPollIntervalMS) * time.Millisecond
	}
	if o.LocationTimeout <= 0 {
		o.LocationTimeout = time.Duration(config.DefaultLocationTimeoutMS) * time.Millisecond
	}
	if o.AlertThresholdKM <= 0 {
		o.AlertThresholdKM = config.DefaultAlertThresholdKM
	}
	return o
}

// Tracker owns the single tracking session and drives it from a
// fixed-interval polling loop. All session mutation happens under one mutex;
// sink callbacks are made outside it.
type Tracker struct {
	provider  locate.Provider
	presenter Presenter
	alerts    AlertSink
	opts      Options

	mu         sync.Mutex
	session    Session
	state      State
	generation uint64
	cancel     context.CancelFunc
}

// New creates a tracker. Nil sinks are replaced with no-ops.
func New(provider locate.Provider, presenter Presenter, alerts AlertSink, opts Options) *Tracker {
	if presenter == nil {
		presenter = nopPresenter{}
	}
	if alerts == nil {
		alerts = nopAlertSink{}
	}
	opts = opts.withDefaults()
	return &Tracker{
		provider:  provider,
		presenter: presenter,
		alerts:    alerts,
		opts:      opts,
		session:   Session{AlertThresholdKM: opts.AlertThresholdKM},
		state:     StateIdle,
	}
}

// SelectStation replaces the destination wholesale. A selection during an
// active session re-arms the latch so the new station alerts fresh.
func (t *Tracker) SelectStation(st stations.Station) {
	t.mu.Lock()
	t.session.Station = &st
	t.session.Alerted = false
	if t.session.Active {
		t.state = StateArmed
	}
	t.mu.Unlock()
	t.presenter.OnStationSelected(st)
}

// Start activates the session and launches the polling loop. Starting
// without a station is a user error: status is reported, nothing changes,
// and the session stays inactive.
func (t *Tracker) Start() error {
	t.mu.Lock()
	if t.session.Active {
		t.mu.Unlock()
		t.presenter.OnStatus("tracking already active", SeverityInfo)
		return nil
	}
	if t.session.Station == nil {
		t.mu.Unlock()
		t.presenter.OnStatus("select a station before starting tracking", SeverityError)
		return ErrNoStation
	}
	t.session.ID = uuid.New()
	t.session.Active = true
	t.session.Alerted = false
	t.state = StateArmed
	t.generation++
	gen := t.generation
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	station := *t.session.Station
	t.mu.Unlock()

	t.presenter.OnStatus(fmt.Sprintf("tracking started toward %s", station.Name), SeverityInfo)
	go t.poll(ctx, gen)
	return nil
}

// Stop deactivates the session and halts the timer. A position request still
// in flight resolves into a dead generation and is discarded.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.session.Active {
		t.mu.Unlock()
		return
	}
	t.session.Active = false
	t.session.Alerted = false
	t.state = StateIdle
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.presenter.OnStatus("tracking stopped", SeverityInfo)
}

// State returns the current alert state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Session returns a copy of the current session.
func (t *Tracker) Session() Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// poll runs one tick immediately, then every PollInterval until the session
// context is cancelled. A failed fix never stops the loop.
func (t *Tracker) poll(ctx context.Context, gen uint64) {
	t.tick(ctx, gen)
	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx, gen)
		}
	}
}

// tick performs one best-effort position query and applies the result.
func (t *Tracker) tick(ctx context.Context, gen uint64) {
	p, err := t.provider.CurrentPosition(ctx, locate.Options{
		HighAccuracy: true,
		MaximumAge:   0,
		Timeout:      t.opts.LocationTimeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if t.liveGeneration(gen) {
			t.presenter.OnStatus(fmt.Sprintf("position update failed: %v", err), SeverityWarning)
		}
		return
	}
	t.applyPosition(gen, p)
}

// liveGeneration reports whether gen is the currently active session.
func (t *Tracker) liveGeneration(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Active && gen == t.generation
}

// Update feeds a position through the state machine as if the polling loop
// had resolved it. Inactive sessions discard the fix.
func (t *Tracker) Update(p geo.Point) {
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	t.applyPosition(gen, p)
}

// applyPosition feeds one resolved fix through the alert state machine.
// Fixes from a stopped or superseded session are discarded; within a session
// the latest applied fix wins.
func (t *Tracker) applyPosition(gen uint64, p geo.Point) {
	t.mu.Lock()
	if !t.session.Active || gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.session.UserPosition = &p

	if t.session.Station == nil {
		t.mu.Unlock()
		t.presenter.OnLocationUpdate(p)
		return
	}
	station := *t.session.Station
	distKM := geo.DistanceKM(p, station.Point)

	fire := false
	if distKM <= t.session.AlertThresholdKM {
		if !t.session.Alerted {
			t.session.Alerted = true
			fire = true
		}
		t.state = StateAlerting
	} else {
		t.session.Alerted = false
		t.state = StateArmed
	}
	alerting := t.state == StateAlerting
	t.mu.Unlock()

	t.presenter.OnLocationUpdate(p)
	t.presenter.OnDistanceUpdate(distKM, alerting)
	if fire {
		t.fireAlert(station, distKM)
	}
}

// fireAlert runs the one-shot side-effects. Sink failures degrade to a
// status message and never propagate.
func (t *Tracker) fireAlert(station stations.Station, distKM float64) {
	text := fmt.Sprintf("%s is %s away (%s walk)",
		station.Name, geo.FormatDistance(distKM), geo.WalkTime(distKM))
	if err := t.alerts.PlayAlertSound(); err != nil {
		t.presenter.OnStatus(fmt.Sprintf("alert sound unavailable: %v", err), SeverityWarning)
	}
	if err := t.alerts.ShowNotification(text); err != nil {
		t.presenter.OnStatus(text, SeverityWarning)
	}
}
