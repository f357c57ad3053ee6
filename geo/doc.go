// Package geo provides pure proximity helpers: great-circle distance between
// coordinates and a display-only arrival-time estimate. Nothing here carries
// state or touches the storage boundary.
package geo
