package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
	"github.com/theoremus-urban-solutions/stop-proximity/internal"
	"github.com/theoremus-urban-solutions/stop-proximity/locate"
	"github.com/theoremus-urban-solutions/stop-proximity/stations"
	"github.com/theoremus-urban-solutions/stop-proximity/tracker"
)

func main() {
	query := flag.String("query", "", "free-text station search")
	pick := flag.Int("pick", 0, "candidate index to track (from the printed list)")
	localStops := flag.Bool("local-stops", false, "search the GTFS stop index instead of the geocoder")
	source := flag.String("source", "replay", "position source: gtfsrt|replay|fixed")
	vehicle := flag.String("vehicle", "", "GTFS-RT vehicle ID to follow (source=gtfsrt)")
	trip := flag.String("trip", "", "GTFS-RT trip ID to follow (source=gtfsrt)")
	track := flag.String("track", "", "YAML track file (source=replay)")
	lat := flag.Float64("lat", 0, "fixed latitude (source=fixed)")
	lon := flag.Float64("lon", 0, "fixed longitude (source=fixed)")
	threshold := flag.Float64("threshold", 0, "alert threshold in km (overrides config)")
	interval := flag.Int("interval", 0, "poll interval in ms (overrides config)")
	flag.Parse()

	_ = godotenv.Load()
	internal.InitLogging()

	if err := config.LoadAppConfig(); err != nil {
		log.Printf("no config file loaded (%v), using defaults", err)
		config.Config = config.ApplyDefaults(config.AppConfig{})
	}
	cfg := config.Config

	geocoder := stations.NewNominatim(cfg.Geocoder)

	var search stations.SearchService = geocoder
	if *localStops {
		idx, err := stations.NewStopIndexFromConfig(cfg.GTFS)
		if err != nil {
			log.Fatalf("failed to load GTFS stops: %v", err)
		}
		log.Printf("loaded %d stops from GTFS feed", idx.Count())
		search = idx
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	results, err := search.Search(ctx, *query)
	cancel()
	if err != nil {
		if errors.Is(err, stations.ErrEmptyQuery) {
			log.Fatal("usage: stop-proximity -query \"station name\" [flags]")
		}
		// Search transport failures are soft: warn and fall through to the
		// empty-result handling.
		log.Printf("warning: station search failed: %v", err)
	}
	if len(results) == 0 {
		log.Fatalf("no stations found for %q", *query)
	}

	log.Printf("found %d candidate stations:", len(results))
	for i, st := range results {
		tag := ""
		if st.Transit {
			tag = " [transit]"
		}
		log.Printf("  %d. %s%s (%s)", i, st.Name, tag, st.Point)
	}
	if *pick < 0 || *pick >= len(results) {
		log.Fatalf("-pick %d out of range", *pick)
	}
	selected := results[*pick]

	if selected.Address == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if addr, err := geocoder.ResolveAddress(ctx, selected.Point); err == nil {
			selected.Address = addr
		}
		cancel()
	}

	provider, err := buildProvider(cfg, *source, *vehicle, *trip, *track, *lat, *lon)
	if err != nil {
		log.Fatal(err)
	}

	opts := tracker.OptionsFromConfig(cfg.Tracker)
	if *threshold > 0 {
		opts.AlertThresholdKM = *threshold
	}
	if *interval > 0 {
		opts.PollInterval = time.Duration(*interval) * time.Millisecond
	}

	tr := tracker.New(provider, consolePresenter{}, terminalAlerts{}, opts)
	tr.SelectStation(selected)
	if err := tr.Start(); err != nil {
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	tr.Stop()
}

func buildProvider(cfg config.AppConfig, source, vehicle, trip, track string, lat, lon float64) (locate.Provider, error) {
	switch source {
	case "gtfsrt":
		if vehicle == "" && trip == "" {
			return nil, fmt.Errorf("source=gtfsrt needs -vehicle or -trip")
		}
		return locate.NewVehicleFeed(cfg.GTFSRT, vehicle, trip), nil
	case "replay":
		if track == "" {
			return nil, fmt.Errorf("source=replay needs -track FILE")
		}
		return locate.NewReplayFromFile(track)
	case "fixed":
		p := geo.Point{Latitude: lat, Longitude: lon}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("source=fixed: %w", err)
		}
		return locate.Fixed{Point: p}, nil
	}
	return nil, fmt.Errorf("unknown source %q", source)
}
