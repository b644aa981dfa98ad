// Package geo provides coordinate types, great-circle distance math and
// human-readable distance/walk-time formatting.
//
// All distances are in kilometers unless a function name says otherwise.
package geo
