// Package stations resolves free-text queries to candidate transit stations.
//
// Two SearchService implementations are provided:
//   - Nominatim: forward/reverse geocoding against an OpenStreetMap Nominatim
//     endpoint, with transit-first ranking of the raw results.
//   - StopIndex: a local index over the stops of a static GTFS feed.
//
// Both return a ranked, de-duplicated candidate list; an empty result is not
// an error. Callers are expected to treat transport errors as soft failures.
package stations
