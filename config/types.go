package config

// TrackerConfig contains proximity-tracking configuration
type TrackerConfig struct {
	PollIntervalMS    int     `yaml:"pollIntervalMS" validate:"gte=0"`
	AlertThresholdKM  float64 `yaml:"alertThresholdKM" validate:"gte=0"`
	LocationTimeoutMS int     `yaml:"locationTimeoutMS" validate:"gte=0"`
}

// GeocoderConfig contains Nominatim geocoder configuration
type GeocoderConfig struct {
	BaseURL      string `yaml:"baseURL" validate:"omitempty,url"`
	UserAgent    string `yaml:"userAgent"`
	Limit        int    `yaml:"limit" validate:"gte=0,lte=10"`
	CountryCodes string `yaml:"countryCodes"`
	Viewbox      string `yaml:"viewbox"`
	TimeoutMS    int    `yaml:"timeoutMS" validate:"gte=0"`
}

// GTFSConfig contains GTFS static feed configuration
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty,url"`
	LocalPath string `yaml:"localPath" validate:"omitempty"`
	AgencyID  string `yaml:"agency_id" validate:"omitempty"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Tracker  TrackerConfig  `yaml:"tracker"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	GTFS     GTFSConfig     `yaml:"gtfs"`
	GTFSRT   GTFSRTConfig   `yaml:"gtfsrt"`
}
