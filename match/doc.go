// Package match implements the pure matching heuristic used to pair
// assistance requests with responders.
//
// Scoring is a weighted combination of skill overlap and priority urgency,
// always in [0, 1]. The same function backs both the client-side preview and
// the coordinator's commit path, so the two can never drift.
package match
