package bandhu

import (
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/match"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Scorer ranks responders against a request.
//
// The default implementation delegates to the match package. A custom scorer
// replaces the ranking policy everywhere at once: preview ranking, single
// assignment, and batch assignment all score through the same instance.
// Implementations must be pure and safe for concurrent use.
type Scorer interface {
	// Evaluate computes the full scoring breakdown for one responder.
	Evaluate(req *types.Request, responder *types.Responder) types.MatchCandidate

	// Rank evaluates every responder and returns candidates best-first.
	Rank(req *types.Request, responders []*types.Responder) []types.MatchCandidate
}

// defaultScorer adapts the match package to the Scorer interface.
type defaultScorer struct{}

var _ Scorer = defaultScorer{}

func (defaultScorer) Evaluate(req *types.Request, responder *types.Responder) types.MatchCandidate {
	return match.Evaluate(req, responder)
}

func (defaultScorer) Rank(req *types.Request, responders []*types.Responder) []types.MatchCandidate {
	return match.Rank(req, responders)
}
