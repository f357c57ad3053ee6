package match

import (
	"sort"
	"strings"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Scoring weights and constants.
const (
	// skillWeight is the weight of the skill-overlap component.
	skillWeight = 0.7

	// priorityWeight is the weight of the priority-urgency component.
	priorityWeight = 0.3

	// skilllessDefault is the skill-match score for responders with no
	// declared skills.
	skilllessDefault = 0.3

	// overlapBonus is added on top of the overlap ratio before capping.
	overlapBonus = 0.3
)

// Score computes the match score for one (request, responder) pairing.
//
// The score is skillMatch*0.7 + priorityScore*0.3 and is always in [0, 1].
// Score is pure and stateless; it is safe for concurrent use.
//
// Parameters:
//   - requestType: Request type driving the required-skill lookup
//   - priority: Request priority
//   - skills: The responder's declared skills
//
// Returns:
//   - float64: Match score in [0, 1]
func Score(requestType types.RequestType, priority types.Priority, skills []string) float64 {
	return SkillMatch(requestType, skills)*skillWeight + PriorityScore(priority)*priorityWeight
}

// SkillMatch computes the skill-overlap component of the match score.
//
// A responder with no declared skills scores the fixed default 0.3.
// Otherwise the responder's skills are counted against the required set using
// a case-insensitive substring match in either direction, and the score is
// min(1, overlap/required + 0.3).
//
// Parameters:
//   - requestType: Request type driving the required-skill lookup
//   - skills: The responder's declared skills
//
// Returns:
//   - float64: Skill-match component in [0, 1]
func SkillMatch(requestType types.RequestType, skills []string) float64 {
	if len(skills) == 0 {
		return skilllessDefault
	}

	required := RequiredSkills(requestType)

	overlap := 0
	for _, skill := range skills {
		if matchesAny(skill, required) {
			overlap++
		}
	}

	score := float64(overlap)/float64(len(required)) + overlapBonus
	if score > 1.0 {
		return 1.0
	}

	return score
}

// matchesAny reports whether skill fuzzy-matches any required skill.
// The match is a case-insensitive substring check in either direction:
// "medic" overlaps "medical" and "emergency medicine" overlaps "emergency".
func matchesAny(skill string, required []string) bool {
	s := strings.ToLower(strings.TrimSpace(skill))
	if s == "" {
		return false
	}

	for _, req := range required {
		r := strings.ToLower(req)
		if strings.Contains(s, r) || strings.Contains(r, s) {
			return true
		}
	}

	return false
}

// PriorityScore computes the urgency component of the match score.
//
// Emergency and high map to 1.0, medium to 0.7, low to 0.4; anything else
// scores the neutral 0.5.
//
// Parameters:
//   - priority: Request priority
//
// Returns:
//   - float64: Priority component in [0, 1]
func PriorityScore(priority types.Priority) float64 {
	switch priority {
	case types.PriorityEmergency, types.PriorityHigh:
		return 1.0
	case types.PriorityMedium:
		return 0.7
	case types.PriorityLow:
		return 0.4
	default:
		return 0.5
	}
}

// Evaluate computes the full scoring breakdown for one responder.
//
// Parameters:
//   - req: The request being matched
//   - responder: The responder to evaluate
//
// Returns:
//   - types.MatchCandidate: Transient breakdown including the final score
func Evaluate(req *types.Request, responder *types.Responder) types.MatchCandidate {
	skillMatch := SkillMatch(req.Type, responder.Skills)
	priorityScore := PriorityScore(req.Priority)

	return types.MatchCandidate{
		ResponderID:   responder.ID,
		ResponderName: responder.Name,
		SkillMatch:    skillMatch,
		PriorityScore: priorityScore,
		MatchScore:    skillMatch*skillWeight + priorityScore*priorityWeight,
	}
}

// Rank evaluates every responder against the request and returns candidates
// sorted by match score descending. Ties are broken by responder name
// ascending, keeping the ordering deterministic for identical inputs.
//
// Parameters:
//   - req: The request being matched
//   - responders: The responder directory to rank
//
// Returns:
//   - []types.MatchCandidate: Candidates in best-first order
func Rank(req *types.Request, responders []*types.Responder) []types.MatchCandidate {
	candidates := make([]types.MatchCandidate, 0, len(responders))
	for _, r := range responders {
		candidates = append(candidates, Evaluate(req, r))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}

		return candidates[i].ResponderName < candidates[j].ResponderName
	})

	return candidates
}
