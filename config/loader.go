package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default values applied when the config file leaves a field unset.
const (
	DefaultPollIntervalMS    = 5000
	DefaultAlertThresholdKM  = 0.5
	DefaultLocationTimeoutMS = 10000
	DefaultGeocoderBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultGeocoderUserAgent = "stop-proximity/1.0"
	DefaultGeocoderLimit     = 5
	DefaultGeocoderTimeoutMS = 10000
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration.
// The STOP_PROXIMITY_CONFIG environment variable takes precedence over the
// default config.yml search paths.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	if p := os.Getenv("STOP_PROXIMITY_CONFIG"); p != "" {
		paths = []string{p}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	Config = ApplyDefaults(cfg)
	return nil
}

// ApplyDefaults fills unset fields with the package defaults and returns the
// completed configuration.
func ApplyDefaults(cfg AppConfig) AppConfig {
	if cfg.Tracker.PollIntervalMS == 0 {
		cfg.Tracker.PollIntervalMS = DefaultPollIntervalMS
	}
	if cfg.Tracker.AlertThresholdKM == 0 {
		cfg.Tracker.AlertThresholdKM = DefaultAlertThresholdKM
	}
	if cfg.Tracker.LocationTimeoutMS == 0 {
		cfg.Tracker.LocationTimeoutMS = DefaultLocationTimeoutMS
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = DefaultGeocoderBaseURL
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = DefaultGeocoderUserAgent
	}
	if cfg.Geocoder.Limit == 0 {
		cfg.Geocoder.Limit = DefaultGeocoderLimit
	}
	if cfg.Geocoder.TimeoutMS == 0 {
		cfg.Geocoder.TimeoutMS = DefaultGeocoderTimeoutMS
	}
	return cfg
}
