package bandhu

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// BatchAssign assigns pending requests to the best-scoring responders.
//
// Requests are processed strictly in priority order (emergency > high >
// medium > low), FIFO by creation time within a tier. For each request the
// best-scoring eligible responder across the whole directory is attempted;
// responders that reach their cap during the batch are excluded from further
// consideration within the same call, so cap consumption is immediately
// visible to subsequent iterations.
//
// The pass stops after maxAssignments successful commits or when the pending
// list is exhausted. A request that loses its commit race to a concurrent
// caller yields an already-assigned failure entry and the pass continues.
//
// Parameters:
//   - ctx: Caller-owned context
//   - maxAssignments: Cap on successful commits; <= 0 selects the default
//   - minScore: Minimum match score to auto-commit; <= 0 selects the default
//
// Returns:
//   - []types.BatchResult: One entry per processed request, in process order
//   - error: Transport failure listing requests or responders
func (c *Coordinator) BatchAssign(ctx context.Context, maxAssignments int, minScore float64) ([]types.BatchResult, error) {
	started := time.Now()
	defer func() {
		c.metrics.RecordBatchDuration(time.Since(started).Seconds())
	}()

	if maxAssignments <= 0 {
		maxAssignments = c.cfg.BatchMaxAssignments
	}
	threshold := minScore
	if threshold <= 0 {
		threshold = c.cfg.DefaultMinScore
	}

	pending, err := c.pendingByUrgency(ctx)
	if err != nil {
		return nil, err
	}

	responders, err := c.store.ListResponders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}

	results := make([]types.BatchResult, 0, len(pending))
	successes := 0

	for _, req := range pending {
		if successes >= maxAssignments {
			break
		}

		eligible := make([]*types.Responder, 0, len(responders))
		for _, r := range responders {
			if r.Availability == types.AvailabilityAvailable && !r.AtCap() {
				eligible = append(eligible, r)
			}
		}
		if len(eligible) == 0 {
			results = append(results, types.BatchResult{
				RequestID: req.ID,
				Message:   "no eligible responders",
			})
			c.metrics.RecordAssignmentAttempt(string(types.ErrorKindNoCandidates))

			continue
		}

		best := c.scorer.Rank(req, eligible)[0]
		if best.MatchScore < threshold {
			results = append(results, types.BatchResult{
				RequestID:  req.ID,
				MatchScore: best.MatchScore,
				Message:    fmt.Sprintf("best score %.2f below threshold %.2f", best.MatchScore, threshold),
			})
			c.metrics.RecordAssignmentAttempt(string(types.ErrorKindBelowThreshold))

			continue
		}

		responder := findResponder(eligible, best.ResponderID)
		asgn, kind, msg, err := c.commit(ctx, req, responder, best.MatchScore)
		if err != nil {
			return nil, err
		}
		if kind != "" {
			results = append(results, types.BatchResult{
				RequestID:  req.ID,
				MatchScore: best.MatchScore,
				Message:    msg,
			})
			c.metrics.RecordAssignmentAttempt(string(kind))

			continue
		}

		// commit incremented the responder's active count on the shared
		// record, so the cap check above sees it on the next iteration.
		successes++
		c.metrics.RecordAssignmentAttempt("success")
		c.metrics.RecordAssignmentScore(asgn.MatchScore)
		results = append(results, types.BatchResult{
			RequestID:   req.ID,
			Success:     true,
			ResponderID: responder.ID,
			MatchScore:  asgn.MatchScore,
			Message:     fmt.Sprintf("assigned %s", responder.Name),
		})
	}

	c.logger.Info("batch assignment finished",
		"processed", len(results), "committed", successes, "max", maxAssignments)

	return results, nil
}

// pendingByUrgency lists pending requests ordered by priority tier
// descending, then creation time ascending (FIFO within a tier), then id for
// a stable order on equal timestamps.
func (c *Coordinator) pendingByUrgency(ctx context.Context) ([]*types.Request, error) {
	all, err := c.store.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	pending := make([]*types.Request, 0, len(all))
	for _, req := range all {
		if req.Status == types.StatusPending {
			pending = append(pending, req)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority.Rank() != pending[j].Priority.Rank() {
			return pending[i].Priority.Rank() > pending[j].Priority.Rank()
		}
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}

		return pending[i].ID < pending[j].ID
	})

	return pending, nil
}

func findResponder(responders []*types.Responder, id string) *types.Responder {
	for _, r := range responders {
		if r.ID == id {
			return r
		}
	}

	return nil
}
