package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusPending, StatusCompleted, true},
		{StatusAssigned, StatusCompleted, true},
		{StatusAssigned, StatusAssigned, false},
		{StatusPending, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusAssigned, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusAssigned, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			require.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusCancelled.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusAssigned.Terminal())
	require.False(t, StatusInProgress.Terminal())
}

func TestPriority_Rank(t *testing.T) {
	require.Greater(t, PriorityEmergency.Rank(), PriorityHigh.Rank())
	require.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	require.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	require.Greater(t, PriorityLow.Rank(), Priority("unknown").Rank())
}

func TestAssignmentStatus_CanTransition(t *testing.T) {
	require.True(t, AssignmentPending.CanTransition(AssignmentAccepted))
	require.True(t, AssignmentAccepted.CanTransition(AssignmentInProgress))
	require.True(t, AssignmentInProgress.CanTransition(AssignmentCompleted))
	require.True(t, AssignmentPending.CanTransition(AssignmentCancelled))
	require.False(t, AssignmentPending.CanTransition(AssignmentInProgress))
	require.False(t, AssignmentCompleted.CanTransition(AssignmentCancelled))
	require.False(t, AssignmentCancelled.CanTransition(AssignmentAccepted))
}

func TestResponder_AtCap(t *testing.T) {
	t.Run("uses default cap when unset", func(t *testing.T) {
		r := &Responder{ActiveAssignmentCount: DefaultResponderCap - 1}
		require.False(t, r.AtCap())

		r.ActiveAssignmentCount = DefaultResponderCap
		require.True(t, r.AtCap())
	})

	t.Run("respects explicit cap", func(t *testing.T) {
		r := &Responder{Cap: 1, ActiveAssignmentCount: 1}
		require.True(t, r.AtCap())
	})
}

func TestIsWrongLastSequenceError(t *testing.T) {
	require.False(t, IsWrongLastSequenceError(nil))
	require.False(t, IsWrongLastSequenceError(errors.New("timeout")))
	require.True(t, IsWrongLastSequenceError(errors.New("nats: wrong last sequence: 12")))
	require.True(t, IsWrongLastSequenceError(fmt.Errorf("update failed: %w", errors.New("wrong last sequence: 3"))))
}

func TestIsNoKeysFoundError(t *testing.T) {
	require.False(t, IsNoKeysFoundError(nil))
	require.True(t, IsNoKeysFoundError(errors.New("nats: no keys found")))
	require.True(t, IsNoKeysFoundError(fmt.Errorf("list keys: %w", errors.New("nats: no keys found"))))
}
