// Package tracker owns the proximity-tracking session: the current position,
// the selected station, and the polling loop that repeatedly measures the
// distance between them.
//
// The alert state machine is edge-triggered. Entering the alert zone fires
// the alert side-effects exactly once; staying inside the zone is silent;
// leaving the zone re-arms the session so a later re-entry alerts again.
package tracker
