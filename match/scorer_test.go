package match

import (
	"testing"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
	"github.com/stretchr/testify/require"
)

func TestScore_WorkedExamples(t *testing.T) {
	t.Run("medical high with first_aid and medical skills", func(t *testing.T) {
		// overlap 2/4 = 0.5, skillMatch = min(1, 0.5+0.3) = 0.8
		// priorityScore = 1.0, matchScore = 0.8*0.7 + 1.0*0.3 = 0.86
		score := Score(types.RequestTypeMedical, types.PriorityHigh, []string{"first_aid", "medical"})
		require.InDelta(t, 0.86, score, 1e-9)
	})

	t.Run("skill-less responder with low priority", func(t *testing.T) {
		// skillMatch = 0.3, priorityScore = 0.4, matchScore = 0.33
		score := Score(types.RequestTypeMedical, types.PriorityLow, nil)
		require.InDelta(t, 0.33, score, 1e-9)
	})
}

func TestScore_Range(t *testing.T) {
	requestTypes := []types.RequestType{
		types.RequestTypeMedical, types.RequestTypeFood, types.RequestTypeShelter,
		types.RequestTypeTransportation, types.RequestTypeRescue, types.RequestTypeSanitation,
		types.RequestType("unknown_type"),
	}
	priorities := []types.Priority{
		types.PriorityEmergency, types.PriorityHigh, types.PriorityMedium,
		types.PriorityLow, types.Priority("bogus"),
	}
	skillSets := [][]string{
		nil,
		{},
		{"medical"},
		{"medical", "first_aid", "healthcare", "emergency", "rescue", "food"},
		{"nothing", "relevant"},
		{"MEDICAL", "First_Aid"},
	}

	for _, rt := range requestTypes {
		for _, p := range priorities {
			for _, skills := range skillSets {
				score := Score(rt, p, skills)
				require.GreaterOrEqual(t, score, 0.0, "type=%s priority=%s skills=%v", rt, p, skills)
				require.LessOrEqual(t, score, 1.0, "type=%s priority=%s skills=%v", rt, p, skills)
			}
		}
	}
}

func TestSkillMatch(t *testing.T) {
	t.Run("empty skill set yields exactly the default", func(t *testing.T) {
		require.Equal(t, 0.3, SkillMatch(types.RequestTypeMedical, nil))
		require.Equal(t, 0.3, SkillMatch(types.RequestTypeMedical, []string{}))
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		require.Equal(t,
			SkillMatch(types.RequestTypeMedical, []string{"medical"}),
			SkillMatch(types.RequestTypeMedical, []string{"MEDICAL"}))
	})

	t.Run("substring match works in either direction", func(t *testing.T) {
		// "medic" is a substring of required "medical";
		// "emergency medicine" contains required "emergency".
		got := SkillMatch(types.RequestTypeMedical, []string{"medic", "emergency medicine"})
		require.InDelta(t, 2.0/4.0+0.3, got, 1e-9)
	})

	t.Run("full overlap is capped at one", func(t *testing.T) {
		skills := []string{"medical", "first_aid", "healthcare", "emergency"}
		require.Equal(t, 1.0, SkillMatch(types.RequestTypeMedical, skills))
	})

	t.Run("unknown type uses the generic skill set", func(t *testing.T) {
		got := SkillMatch(types.RequestType("plumbing_advice"), []string{"general"})
		require.InDelta(t, 1.0/3.0+0.3, got, 1e-9)
	})
}

func TestPriorityScore(t *testing.T) {
	require.Equal(t, 1.0, PriorityScore(types.PriorityEmergency))
	require.Equal(t, 1.0, PriorityScore(types.PriorityHigh))
	require.Equal(t, 0.7, PriorityScore(types.PriorityMedium))
	require.Equal(t, 0.4, PriorityScore(types.PriorityLow))
	require.Equal(t, 0.5, PriorityScore(types.Priority("urgent-ish")))
}

func TestRank(t *testing.T) {
	req := &types.Request{Type: types.RequestTypeMedical, Priority: types.PriorityHigh}

	t.Run("orders by score descending", func(t *testing.T) {
		responders := []*types.Responder{
			{ID: "r1", Name: "Asha", Skills: nil},
			{ID: "r2", Name: "Bela", Skills: []string{"medical", "first_aid"}},
			{ID: "r3", Name: "Chand", Skills: []string{"medical"}},
		}

		ranked := Rank(req, responders)

		require.Len(t, ranked, 3)
		require.Equal(t, "r2", ranked[0].ResponderID)
		require.Equal(t, "r3", ranked[1].ResponderID)
		require.Equal(t, "r1", ranked[2].ResponderID)
	})

	t.Run("breaks ties by responder name ascending", func(t *testing.T) {
		responders := []*types.Responder{
			{ID: "r9", Name: "Zoya", Skills: []string{"medical"}},
			{ID: "r4", Name: "Arjun", Skills: []string{"medical"}},
			{ID: "r7", Name: "Mira", Skills: []string{"medical"}},
		}

		ranked := Rank(req, responders)

		require.Equal(t, []string{"Arjun", "Mira", "Zoya"},
			[]string{ranked[0].ResponderName, ranked[1].ResponderName, ranked[2].ResponderName})
	})

	t.Run("is deterministic across calls", func(t *testing.T) {
		responders := []*types.Responder{
			{ID: "a", Name: "Nia", Skills: []string{"first_aid"}},
			{ID: "b", Name: "Omar", Skills: []string{"healthcare"}},
			{ID: "c", Name: "Pia", Skills: nil},
		}

		first := Rank(req, responders)
		second := Rank(req, responders)
		require.Equal(t, first, second)
	})

	t.Run("carries the scoring breakdown", func(t *testing.T) {
		ranked := Rank(req, []*types.Responder{
			{ID: "r2", Name: "Bela", Skills: []string{"first_aid", "medical"}},
		})

		require.InDelta(t, 0.8, ranked[0].SkillMatch, 1e-9)
		require.InDelta(t, 1.0, ranked[0].PriorityScore, 1e-9)
		require.InDelta(t, 0.86, ranked[0].MatchScore, 1e-9)
	})
}
