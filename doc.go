// Package bandhu implements the coordination core of BandhuConnect+: matching
// assistance requests to responders, committing assignments safely under
// concurrency, and keeping distributed client sessions in sync.
//
// The Coordinator turns match scores into committed assignments through a
// conditional write on the request's status: the request moves from pending
// to assigned only if it is still pending at write time, so two callers
// racing to assign the same request resolve to exactly one winner with no
// client-side locks.
//
// Scoring lives in the match package and is the single source of truth for
// both preview ranking and the commit path. Real-time synchronization
// (change-feed subscriptions, broadcast refresh, offline-queue replay) lives
// in the statussync package. Storage implementations live in the store
// package.
//
// Basic usage:
//
//	st, err := store.NewNATS(ctx, nc, store.Config{}, nil)
//	if err != nil { ... }
//	coord, err := bandhu.New(&bandhu.Config{}, st)
//	if err != nil { ... }
//	result, err := coord.Assign(ctx, requestID, responderID, 0.5, bandhu.AssignOptions{})
package bandhu
