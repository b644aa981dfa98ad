package tracker

import (
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
	"github.com/theoremus-urban-solutions/stop-proximity/stations"
)

// Severity classifies status messages sent to the presentation layer.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Presenter is the sink the tracker notifies on every update. The tracker
// only calls in; it never reads presentation state back.
type Presenter interface {
	OnLocationUpdate(p geo.Point)
	OnStationSelected(st stations.Station)
	OnDistanceUpdate(km float64, alerting bool)
	OnStatus(message string, severity Severity)
}

// AlertSink receives the one-shot alert side-effects. Both calls are
// best-effort: errors are demoted to a status message and never interrupt
// tracking.
type AlertSink interface {
	PlayAlertSound() error
	ShowNotification(text string) error
}

type nopPresenter struct{}

func (nopPresenter) OnLocationUpdate(geo.Point)         {}
func (nopPresenter) OnStationSelected(stations.Station) {}
func (nopPresenter) OnDistanceUpdate(float64, bool)     {}
func (nopPresenter) OnStatus(string, Severity)          {}

type nopAlertSink struct{}

func (nopAlertSink) PlayAlertSound() error         { return nil }
func (nopAlertSink) ShowNotification(string) error { return nil }
