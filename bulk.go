package bandhu

import (
	"context"
	"fmt"
	"time"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// MarkAllCompleted transitions every non-terminal request to completed.
//
// The sweep is restricted to privileged callers through the configured
// authorizer. Active assignments behind the completed requests are completed
// as well and their responders' active counts are released. After the sweep a
// refresh broadcast (if a broadcaster is configured) tells all sessions to
// reconcile immediately.
//
// Parameters:
//   - ctx: Caller-owned context
//   - actorID: The acting user, checked against the authorizer
//
// Returns:
//   - *types.BulkResult: Count and ids of completed requests
//   - error: ErrNotPrivileged, or transport failure
func (c *Coordinator) MarkAllCompleted(ctx context.Context, actorID string) (*types.BulkResult, error) {
	return c.markCompleted(ctx, actorID, "mark_all_completed", func(*types.Request) bool { return true })
}

// MarkCompletedByFilter transitions non-terminal requests matching the filter
// to completed, with the same authorization and broadcast behavior as
// MarkAllCompleted.
//
// Parameters:
//   - ctx: Caller-owned context
//   - actorID: The acting user, checked against the authorizer
//   - kind: Filter field, FilterByType or FilterByPriority
//   - value: Filter value to match
//
// Returns:
//   - *types.BulkResult: Count and ids of completed requests
//   - error: ErrValidation for an unknown filter kind, ErrNotPrivileged, or
//     transport failure
func (c *Coordinator) MarkCompletedByFilter(ctx context.Context, actorID string, kind types.FilterKind, value string) (*types.BulkResult, error) {
	var matches func(*types.Request) bool
	switch kind {
	case types.FilterByType:
		matches = func(req *types.Request) bool { return string(req.Type) == value }
	case types.FilterByPriority:
		matches = func(req *types.Request) bool { return string(req.Priority) == value }
	default:
		return nil, fmt.Errorf("%w: unknown filter kind %q", ErrValidation, kind)
	}

	reason := fmt.Sprintf("mark_completed_by_%s", kind)

	return c.markCompleted(ctx, actorID, reason, matches)
}

// markCompleted runs one bulk completion sweep.
func (c *Coordinator) markCompleted(ctx context.Context, actorID, reason string, matches func(*types.Request) bool) (*types.BulkResult, error) {
	if err := c.authorize(ctx, actorID); err != nil {
		return nil, err
	}

	all, err := c.store.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	updated := make([]string, 0, len(all))
	completedSet := make(map[string]bool, len(all))
	for _, req := range all {
		if req.Status.Terminal() || !matches(req) {
			continue
		}
		if c.completeRequest(ctx, req) {
			updated = append(updated, req.ID)
			completedSet[req.ID] = true
		}
	}

	if len(completedSet) > 0 {
		c.closeAssignmentsFor(ctx, completedSet)
	}

	c.metrics.RecordBulkCompleted(len(updated))
	c.logger.Info("bulk completion finished", "reason", reason, "updated", len(updated), "actor_id", actorID)

	if c.broadcaster != nil {
		if err := c.broadcaster.BroadcastRefresh(ctx, reason); err != nil {
			c.logger.Warn("failed to broadcast refresh after bulk completion", "reason", reason, "error", err)
		}
	}

	return &types.BulkResult{UpdatedCount: len(updated), UpdatedIDs: updated}, nil
}

// completeRequest drives one request to completed through the conditional
// write, retrying when a racing writer moved the status underneath us.
func (c *Coordinator) completeRequest(ctx context.Context, req *types.Request) bool {
	status := req.Status
	for attempt := 0; attempt < 3; attempt++ {
		won, err := c.store.CompareAndSetRequestStatus(ctx, req.ID, status, types.StatusCompleted)
		if err != nil {
			c.logger.Warn("failed to complete request in sweep", "request_id", req.ID, "error", err)

			return false
		}
		if won {
			return true
		}

		current, err := c.store.GetRequest(ctx, req.ID)
		if err != nil {
			return false
		}
		if current.Status == types.StatusCompleted {
			return true
		}
		if current.Status.Terminal() {
			return false
		}
		status = current.Status
	}

	return false
}

// closeAssignmentsFor completes active assignments belonging to the swept
// requests and releases their responders' active counts.
func (c *Coordinator) closeAssignmentsFor(ctx context.Context, requests map[string]bool) {
	assignments, err := c.store.ListAssignments(ctx)
	if err != nil {
		c.logger.Warn("failed to list assignments during sweep", "error", err)

		return
	}

	now := time.Now().UTC()
	for _, asgn := range assignments {
		if !requests[asgn.RequestID] || !asgn.Active() {
			continue
		}

		won, err := c.store.CompareAndSetAssignmentStatus(ctx, asgn.ID, asgn.Status, types.AssignmentCompleted)
		if err != nil || !won {
			c.logger.Warn("failed to complete assignment in sweep", "assignment_id", asgn.ID, "error", err)

			continue
		}

		completed, err := c.store.GetAssignment(ctx, asgn.ID)
		if err == nil {
			completed.CompletedAt = &now
			if err := c.store.PutAssignment(ctx, completed); err != nil {
				c.logger.Warn("failed to stamp assignment completion time", "assignment_id", asgn.ID, "error", err)
			}
		}

		c.releaseResponder(ctx, asgn.ResponderID)
	}
}

// releaseResponder decrements a responder's active assignment count.
func (c *Coordinator) releaseResponder(ctx context.Context, responderID string) {
	responder, err := c.store.GetResponder(ctx, responderID)
	if err != nil {
		c.logger.Warn("failed to load responder for release", "responder_id", responderID, "error", err)

		return
	}

	if responder.ActiveAssignmentCount > 0 {
		responder.ActiveAssignmentCount--
	}
	if err := c.store.PutResponder(ctx, responder); err != nil {
		c.logger.Warn("failed to release responder", "responder_id", responderID, "error", err)
	}
}

// authorize consults the permission hook for bulk operations.
func (c *Coordinator) authorize(ctx context.Context, actorID string) error {
	if c.authorizer == nil {
		return nil
	}

	privileged, err := c.authorizer.IsPrivileged(ctx, actorID)
	if err != nil {
		return fmt.Errorf("authorization check failed for %s: %w", actorID, err)
	}
	if !privileged {
		return fmt.Errorf("%w: actor %s", ErrNotPrivileged, actorID)
	}

	return nil
}
