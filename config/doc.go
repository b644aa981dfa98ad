// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Missing optional values are filled with tracking-friendly defaults after
// validation succeeds.
package config
