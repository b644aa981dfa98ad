package main

import (
	"fmt"
	"log"
	"os"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
	"github.com/theoremus-urban-solutions/stop-proximity/stations"
	"github.com/theoremus-urban-solutions/stop-proximity/tracker"
)

// consolePresenter renders tracker updates as log lines.
type consolePresenter struct{}

func (consolePresenter) OnLocationUpdate(p geo.Point) {
	log.Printf("position %s", p)
}

func (consolePresenter) OnStationSelected(st stations.Station) {
	if st.Address != "" {
		log.Printf("tracking station: %s (%s)", st.Name, st.Address)
		return
	}
	log.Printf("tracking station: %s", st.Name)
}

func (consolePresenter) OnDistanceUpdate(km float64, alerting bool) {
	marker := ""
	if alerting {
		marker = "  << IN ALERT ZONE"
	}
	log.Printf("distance %s, about %s on foot%s", geo.FormatDistance(km), geo.WalkTime(km), marker)
}

func (consolePresenter) OnStatus(message string, severity tracker.Severity) {
	log.Printf("[%s] %s", severity, message)
}

// terminalAlerts rings the terminal bell and prints a prominent line in
// place of a platform notification.
type terminalAlerts struct{}

func (terminalAlerts) PlayAlertSound() error {
	_, err := fmt.Fprint(os.Stdout, "\a")
	return err
}

func (terminalAlerts) ShowNotification(text string) error {
	log.Printf("*** %s ***", text)
	return nil
}
