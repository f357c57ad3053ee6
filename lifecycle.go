package bandhu

import (
	"context"
	"fmt"
	"time"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Single-assignment lifecycle operations. Each drives the request and its
// assignment through the state machine
//
//	pending → assigned → accepted → in_progress → completed
//
// via the store's conditional writes; cancelled is reachable from any
// non-terminal state.

// AcceptAssignment records the responder's acceptance of an assignment.
//
// Parameters:
//   - ctx: Caller-owned context
//   - assignmentID: The assignment to accept
//
// Returns:
//   - error: ErrNotFound, ErrInvalidTransition when not pending, or transport
func (c *Coordinator) AcceptAssignment(ctx context.Context, assignmentID string) error {
	won, err := c.store.CompareAndSetAssignmentStatus(ctx, assignmentID, types.AssignmentPending, types.AssignmentAccepted)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: assignment %s is not pending", ErrInvalidTransition, assignmentID)
	}

	c.logger.Info("assignment accepted", "assignment_id", assignmentID)

	return nil
}

// StartAssignment marks an accepted assignment as in progress, moving the
// request along with it.
//
// Parameters:
//   - ctx: Caller-owned context
//   - assignmentID: The assignment to start
//
// Returns:
//   - error: ErrNotFound, ErrInvalidTransition when not accepted, or transport
func (c *Coordinator) StartAssignment(ctx context.Context, assignmentID string) error {
	asgn, err := c.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	won, err := c.store.CompareAndSetAssignmentStatus(ctx, assignmentID, types.AssignmentAccepted, types.AssignmentInProgress)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: assignment %s is not accepted", ErrInvalidTransition, assignmentID)
	}

	if _, err := c.store.CompareAndSetRequestStatus(ctx, asgn.RequestID, types.StatusAssigned, types.StatusInProgress); err != nil {
		c.logger.Warn("failed to move request to in_progress", "request_id", asgn.RequestID, "error", err)
	}

	c.logger.Info("assignment started", "assignment_id", assignmentID, "request_id", asgn.RequestID)

	return nil
}

// CompleteAssignment completes an active assignment, completes its request,
// stamps the completion time, and releases the responder's active count.
//
// Parameters:
//   - ctx: Caller-owned context
//   - assignmentID: The assignment to complete
//
// Returns:
//   - error: ErrNotFound, ErrInvalidTransition when already terminal, or
//     transport
func (c *Coordinator) CompleteAssignment(ctx context.Context, assignmentID string) error {
	asgn, err := c.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if asgn.Status.Terminal() {
		return fmt.Errorf("%w: assignment %s is already %s", ErrInvalidTransition, assignmentID, asgn.Status)
	}

	won, err := c.store.CompareAndSetAssignmentStatus(ctx, assignmentID, asgn.Status, types.AssignmentCompleted)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: assignment %s changed state concurrently", ErrInvalidTransition, assignmentID)
	}

	now := time.Now().UTC()
	if completed, err := c.store.GetAssignment(ctx, assignmentID); err == nil {
		completed.CompletedAt = &now
		if err := c.store.PutAssignment(ctx, completed); err != nil {
			c.logger.Warn("failed to stamp assignment completion time", "assignment_id", assignmentID, "error", err)
		}
	}

	if req, err := c.store.GetRequest(ctx, asgn.RequestID); err == nil && !req.Status.Terminal() {
		if _, err := c.store.CompareAndSetRequestStatus(ctx, req.ID, req.Status, types.StatusCompleted); err != nil {
			c.logger.Warn("failed to complete request", "request_id", req.ID, "error", err)
		}
	}

	c.releaseResponder(ctx, asgn.ResponderID)
	c.logger.Info("assignment completed", "assignment_id", assignmentID, "request_id", asgn.RequestID)

	return nil
}

// CancelRequest cancels a non-terminal request and any active assignment
// behind it, releasing the responder.
//
// Parameters:
//   - ctx: Caller-owned context
//   - requestID: The request to cancel
//
// Returns:
//   - error: ErrNotFound, ErrInvalidTransition when already terminal, or
//     transport
func (c *Coordinator) CancelRequest(ctx context.Context, requestID string) error {
	req, err := c.store.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return fmt.Errorf("%w: request %s is already %s", ErrInvalidTransition, requestID, req.Status)
	}

	won, err := c.store.CompareAndSetRequestStatus(ctx, requestID, req.Status, types.StatusCancelled)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: request %s changed state concurrently", ErrInvalidTransition, requestID)
	}

	assignments, err := c.store.ListAssignments(ctx)
	if err != nil {
		c.logger.Warn("failed to list assignments during cancel", "request_id", requestID, "error", err)

		return nil
	}
	for _, asgn := range assignments {
		if asgn.RequestID != requestID || !asgn.Active() {
			continue
		}
		if won, err := c.store.CompareAndSetAssignmentStatus(ctx, asgn.ID, asgn.Status, types.AssignmentCancelled); err != nil || !won {
			c.logger.Warn("failed to cancel assignment", "assignment_id", asgn.ID, "error", err)

			continue
		}
		c.releaseResponder(ctx, asgn.ResponderID)
	}

	c.logger.Info("request cancelled", "request_id", requestID)

	return nil
}
