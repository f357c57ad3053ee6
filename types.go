package bandhu

import "github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types. It
// uses type aliases to re-export definitions from the `types` subpackage,
// which contains the actual implementations. Internal packages depend on
// `types` directly, avoiding import cycles, while users get convenient
// `bandhu.Request`, `bandhu.Assignment`, etc.
type (
	Request        = types.Request
	Responder      = types.Responder
	Assignment     = types.Assignment
	MatchCandidate = types.MatchCandidate
	Coordinate     = types.Coordinate
	AssignResult   = types.AssignResult
	BatchResult    = types.BatchResult
	BulkResult     = types.BulkResult
	Mutation       = types.Mutation
	RefreshSignal  = types.RefreshSignal
)

// Re-export interfaces from the types subpackage for convenience.
type (
	RecordStore      = types.RecordStore
	ChangeFeedSource = types.ChangeFeedSource
	Authorizer       = types.Authorizer
	Broadcaster      = types.Broadcaster
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
)

// Re-export request status constants.
const (
	StatusPending    = types.StatusPending
	StatusAssigned   = types.StatusAssigned
	StatusInProgress = types.StatusInProgress
	StatusCompleted  = types.StatusCompleted
	StatusCancelled  = types.StatusCancelled
)

// Re-export priority constants.
const (
	PriorityLow       = types.PriorityLow
	PriorityMedium    = types.PriorityMedium
	PriorityHigh      = types.PriorityHigh
	PriorityEmergency = types.PriorityEmergency
)

// Re-export availability constants.
const (
	AvailabilityAvailable = types.AvailabilityAvailable
	AvailabilityBusy      = types.AvailabilityBusy
	AvailabilityOffline   = types.AvailabilityOffline
)
