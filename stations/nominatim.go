package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/theoremus-urban-solutions/stop-proximity/config"
	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// nominatimResult is the wire shape of one Nominatim search result.
// Coordinates arrive as strings.
type nominatimResult struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// Nominatim is a SearchService backed by an OpenStreetMap Nominatim endpoint.
type Nominatim struct {
	baseURL      string
	userAgent    string
	limit        int
	countryCodes string
	viewbox      string
	httpClient   *http.Client
}

// NewNominatim creates a geocoder from configuration. Zero values fall back
// to the config package defaults.
func NewNominatim(cfg config.GeocoderConfig) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultGeocoderBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultGeocoderUserAgent
	}
	if cfg.Limit <= 0 {
		cfg.Limit = config.DefaultGeocoderLimit
	}
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = config.DefaultGeocoderTimeoutMS
	}
	return &Nominatim{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:    cfg.UserAgent,
		limit:        cfg.Limit,
		countryCodes: cfg.CountryCodes,
		viewbox:      cfg.Viewbox,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}
}

// Search geocodes a free-text query and returns ranked, de-duplicated
// candidate stations. An empty result set is not an error.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", strconv.Itoa(n.limit))
	params.Add("addressdetails", "1")
	if n.countryCodes != "" {
		params.Add("countrycodes", n.countryCodes)
	}
	if n.viewbox != "" {
		params.Add("bounded", "1")
		params.Add("viewbox", n.viewbox)
	}

	body, err := n.get(ctx, n.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var raw []nominatimResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing geocoder response: %w", err)
	}

	candidates := make([]Station, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		p := geo.Point{Latitude: lat, Longitude: lon}
		if p.Validate() != nil {
			continue
		}
		candidates = append(candidates, Station{
			Name:    displayNameHead(r.DisplayName),
			Address: r.DisplayName,
			Point:   p,
			Transit: isTransitTagged(r.Class, r.Type),
			Weight:  r.Importance,
		})
	}
	return Deduplicate(Rank(candidates)), nil
}

// ResolveAddress reverse-geocodes a point to a display address.
func (n *Nominatim) ResolveAddress(ctx context.Context, p geo.Point) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%.6f", p.Latitude))
	params.Add("lon", fmt.Sprintf("%.6f", p.Longitude))
	params.Add("format", "json")
	params.Add("addressdetails", "1")

	body, err := n.get(ctx, n.baseURL+"/reverse?"+params.Encode())
	if err != nil {
		return "", err
	}
	name := gjson.GetBytes(body, "display_name")
	if !name.Exists() {
		return "", fmt.Errorf("reverse geocode returned no display_name")
	}
	return name.String(), nil
}

func (n *Nominatim) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// displayNameHead takes the leading segment of a Nominatim display_name,
// which is the place name itself.
func displayNameHead(displayName string) string {
	if i := strings.Index(displayName, ","); i > 0 {
		return strings.TrimSpace(displayName[:i])
	}
	return displayName
}

// isTransitTagged reports whether an OSM class/type pair identifies a
// public-transit stop.
func isTransitTagged(class, typ string) bool {
	switch class {
	case "highway":
		return typ == "bus_stop"
	case "amenity":
		return typ == "bus_station"
	case "railway":
		return typ == "station" || typ == "halt" || typ == "tram_stop"
	case "public_transport":
		return true
	}
	return false
}
