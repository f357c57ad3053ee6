package bandhu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// AssignOptions carries per-call assignment flags.
type AssignOptions struct {
	// Override marks a manual assignment: a human explicitly picked the
	// responder from a ranked list. It relaxes the responder cap and lowers
	// the score threshold to Config.OverrideMinScore. Offline responders are
	// still refused; override can force a busy responder, not an absent one.
	Override bool
}

// Assign attempts to commit an assignment of the given responder to the
// given request.
//
// Expected, recoverable failures (request not pending, responder ineligible,
// score below threshold, lost commit race) are reported in the result with an
// ErrorKind and a human-readable message; the error return is reserved for
// transport failures, which are surfaced with no automatic retry.
//
// The commit is guarded by a conditional write: the request transitions from
// pending to assigned only if it is still pending at write time. Losing that
// race yields ErrorKindAlreadyAssigned, never a second assignment row.
//
// Parameters:
//   - ctx: Caller-owned context; the Coordinator applies no deadline of its own
//   - requestID: The request to assign
//   - responderID: The responder to assign
//   - minScore: Minimum match score to auto-commit; <= 0 selects the default
//   - opts: Per-call flags (manual override)
//
// Returns:
//   - *types.AssignResult: Structured outcome, never nil on nil error
//   - error: Transport failure reaching the store
func (c *Coordinator) Assign(ctx context.Context, requestID, responderID string, minScore float64, opts AssignOptions) (*types.AssignResult, error) {
	if requestID == "" || responderID == "" {
		return c.assignFailure(types.ErrorKindValidation, "request id and responder id are required"), nil
	}

	threshold := minScore
	if threshold <= 0 {
		threshold = c.cfg.DefaultMinScore
	}
	if opts.Override {
		threshold = c.cfg.OverrideMinScore
	}

	req, err := c.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.assignFailure(types.ErrorKindValidation, fmt.Sprintf("request %s not found", requestID)), nil
		}

		c.metrics.RecordAssignmentAttempt(string(types.ErrorKindTransport))

		return nil, err
	}
	if req.Status != types.StatusPending {
		return c.assignFailure(types.ErrorKindValidation,
			fmt.Sprintf("request %s is %s, not pending", requestID, req.Status)), nil
	}

	responder, err := c.store.GetResponder(ctx, responderID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.assignFailure(types.ErrorKindValidation, fmt.Sprintf("responder %s not found", responderID)), nil
		}

		c.metrics.RecordAssignmentAttempt(string(types.ErrorKindTransport))

		return nil, err
	}

	if kind, msg := c.checkEligibility(responder, opts.Override); kind != "" {
		return c.assignFailure(kind, msg), nil
	}

	candidate := c.scorer.Evaluate(req, responder)
	if candidate.MatchScore < threshold {
		result := c.assignFailure(types.ErrorKindBelowThreshold,
			fmt.Sprintf("match score %.2f below threshold %.2f", candidate.MatchScore, threshold))
		result.MatchScore = candidate.MatchScore

		return result, nil
	}

	asgn, kind, msg, err := c.commit(ctx, req, responder, candidate.MatchScore)
	if err != nil {
		c.metrics.RecordAssignmentAttempt(string(types.ErrorKindTransport))

		return nil, err
	}
	if kind != "" {
		result := c.assignFailure(kind, msg)
		result.MatchScore = candidate.MatchScore

		return result, nil
	}

	c.metrics.RecordAssignmentAttempt("success")
	c.metrics.RecordAssignmentScore(asgn.MatchScore)
	c.logger.Info("assignment committed",
		"request_id", req.ID, "responder_id", responder.ID,
		"assignment_id", asgn.ID, "match_score", asgn.MatchScore, "override", opts.Override)

	return &types.AssignResult{
		Success:      true,
		AssignmentID: asgn.ID,
		MatchScore:   asgn.MatchScore,
		Message:      fmt.Sprintf("assigned %s to request %s", responder.Name, req.ID),
	}, nil
}

// checkEligibility validates responder availability and capacity.
// An empty kind means eligible.
func (c *Coordinator) checkEligibility(responder *types.Responder, override bool) (types.ErrorKind, string) {
	switch responder.Availability {
	case types.AvailabilityOffline:
		return types.ErrorKindValidation, fmt.Sprintf("responder %s is offline", responder.ID)
	case types.AvailabilityBusy:
		if !override {
			return types.ErrorKindValidation, fmt.Sprintf("responder %s is busy", responder.ID)
		}
	case types.AvailabilityAvailable:
	default:
		return types.ErrorKindValidation,
			fmt.Sprintf("responder %s has unknown availability %q", responder.ID, responder.Availability)
	}

	if responder.AtCap() && !override {
		return types.ErrorKindCapacityExceeded,
			fmt.Sprintf("responder %s is at capacity (%d active)", responder.ID, responder.ActiveAssignmentCount)
	}

	return "", ""
}

// commit performs the conditional request transition and creates the
// assignment row. An empty kind with nil error means success.
func (c *Coordinator) commit(ctx context.Context, req *types.Request, responder *types.Responder, score float64) (*types.Assignment, types.ErrorKind, string, error) {
	won, err := c.store.CompareAndSetRequestStatus(ctx, req.ID, types.StatusPending, types.StatusAssigned)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrorKindValidation, fmt.Sprintf("request %s not found", req.ID), nil
		}

		return nil, "", "", err
	}
	if !won {
		return nil, types.ErrorKindAlreadyAssigned,
			fmt.Sprintf("request %s was assigned by another caller", req.ID), nil
	}

	asgn := &types.Assignment{
		ID:          uuid.NewString(),
		RequestID:   req.ID,
		ResponderID: responder.ID,
		Status:      types.AssignmentPending,
		MatchScore:  score,
		AssignedAt:  time.Now().UTC(),
	}
	if err := c.store.PutAssignment(ctx, asgn); err != nil {
		// Best-effort rollback so the request does not stay assigned with no
		// assignment row behind it.
		if ok, rbErr := c.store.CompareAndSetRequestStatus(ctx, req.ID, types.StatusAssigned, types.StatusPending); rbErr != nil || !ok {
			c.logger.Error("failed to roll back request after assignment write failure",
				"request_id", req.ID, "error", rbErr)
		}

		return nil, "", "", fmt.Errorf("failed to create assignment for request %s: %w", req.ID, err)
	}

	responder.ActiveAssignmentCount++
	if err := c.store.PutResponder(ctx, responder); err != nil {
		// The assignment is committed; a stale count is reconciled on the
		// next completion sweep.
		c.logger.Warn("failed to update responder active count",
			"responder_id", responder.ID, "error", err)
	}

	return asgn, "", "", nil
}

// assignFailure builds a failure result and records the attempt metric.
func (c *Coordinator) assignFailure(kind types.ErrorKind, msg string) *types.AssignResult {
	c.metrics.RecordAssignmentAttempt(string(kind))
	c.logger.Debug("assignment refused", "kind", kind, "reason", msg)

	return &types.AssignResult{Success: false, ErrorKind: kind, Message: msg}
}

// RankCandidates scores every responder in the directory against the request
// and returns them best-first. Used by callers to present a ranked list for
// manual assignment; the same scoring backs the commit path.
//
// Parameters:
//   - ctx: Caller-owned context
//   - requestID: The request to rank responders for
//
// Returns:
//   - []types.MatchCandidate: Candidates ordered by score desc, name asc
//   - error: ErrNotFound if the request does not exist; transport failure
func (c *Coordinator) RankCandidates(ctx context.Context, requestID string) ([]types.MatchCandidate, error) {
	req, err := c.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	responders, err := c.store.ListResponders(ctx)
	if err != nil {
		return nil, err
	}

	return c.scorer.Rank(req, responders), nil
}
