// Package locate provides one-shot, best-effort position sources.
//
// The Provider interface mirrors a platform geolocation query: each call
// returns a single fresh fix or one of four failure kinds. Implementations
// include a GTFS-Realtime vehicle-position feed, a recorded-track replay,
// and a fixed point.
package locate
