package bandhu

import (
	"context"
	"fmt"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// ApplyMutation applies a single queued mutation intent against the store.
//
// This is the replay entry point for the offline queue: the sync service
// delivers mutations at least once, so application must be idempotent by
// target. A mutation whose target already holds the desired status returns
// ErrAlreadyApplied, which replay counts as success. Any other failure leaves
// the mutation at the head of the queue for retry.
//
// Parameters:
//   - ctx: Caller-owned context
//   - m: The mutation intent to apply
//
// Returns:
//   - error: nil on success, ErrAlreadyApplied for an idempotent no-op,
//     ErrValidation for a malformed intent, ErrInvalidTransition when the
//     state machine forbids the change, or transport failure
func (c *Coordinator) ApplyMutation(ctx context.Context, m types.Mutation) error {
	switch m.Kind {
	case types.MutationRequestStatus:
		return c.applyRequestStatus(ctx, m.TargetID, types.RequestStatus(m.Value))
	case types.MutationAssignmentStatus:
		return c.applyAssignmentStatus(ctx, m.TargetID, types.AssignmentStatus(m.Value))
	case types.MutationResponderAvailability:
		return c.applyResponderAvailability(ctx, m.TargetID, types.Availability(m.Value))
	default:
		return fmt.Errorf("%w: unknown mutation kind %q", ErrValidation, m.Kind)
	}
}

func (c *Coordinator) applyRequestStatus(ctx context.Context, requestID string, desired types.RequestStatus) error {
	req, err := c.store.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status == desired {
		return ErrAlreadyApplied
	}
	if !req.Status.CanTransition(desired) {
		return fmt.Errorf("%w: request %s cannot go %s -> %s",
			ErrInvalidTransition, requestID, req.Status, desired)
	}

	won, err := c.store.CompareAndSetRequestStatus(ctx, requestID, req.Status, desired)
	if err != nil {
		return err
	}
	if !won {
		// A racing writer moved the status between read and write. Re-read:
		// if it landed on the desired status anyway, the intent is satisfied.
		current, err := c.store.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status == desired {
			return ErrAlreadyApplied
		}

		return fmt.Errorf("%w: request %s moved to %s concurrently",
			ErrInvalidTransition, requestID, current.Status)
	}

	c.logger.Debug("mutation applied", "kind", types.MutationRequestStatus,
		"request_id", requestID, "status", desired)

	return nil
}

func (c *Coordinator) applyAssignmentStatus(ctx context.Context, assignmentID string, desired types.AssignmentStatus) error {
	asgn, err := c.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if asgn.Status == desired {
		return ErrAlreadyApplied
	}
	if !asgn.Status.CanTransition(desired) {
		return fmt.Errorf("%w: assignment %s cannot go %s -> %s",
			ErrInvalidTransition, assignmentID, asgn.Status, desired)
	}

	won, err := c.store.CompareAndSetAssignmentStatus(ctx, assignmentID, asgn.Status, desired)
	if err != nil {
		return err
	}
	if !won {
		current, err := c.store.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if current.Status == desired {
			return ErrAlreadyApplied
		}

		return fmt.Errorf("%w: assignment %s moved to %s concurrently",
			ErrInvalidTransition, assignmentID, current.Status)
	}

	if desired == types.AssignmentCompleted || desired == types.AssignmentCancelled {
		c.releaseResponder(ctx, asgn.ResponderID)
	}

	c.logger.Debug("mutation applied", "kind", types.MutationAssignmentStatus,
		"assignment_id", assignmentID, "status", desired)

	return nil
}

func (c *Coordinator) applyResponderAvailability(ctx context.Context, responderID string, desired types.Availability) error {
	switch desired {
	case types.AvailabilityAvailable, types.AvailabilityBusy, types.AvailabilityOffline:
	default:
		return fmt.Errorf("%w: unknown availability %q", ErrValidation, desired)
	}

	responder, err := c.store.GetResponder(ctx, responderID)
	if err != nil {
		return err
	}
	if responder.Availability == desired {
		return ErrAlreadyApplied
	}

	responder.Availability = desired
	if err := c.store.PutResponder(ctx, responder); err != nil {
		return err
	}

	c.logger.Debug("mutation applied", "kind", types.MutationResponderAvailability,
		"responder_id", responderID, "availability", desired)

	return nil
}
