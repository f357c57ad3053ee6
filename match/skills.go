package match

import "github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"

// requiredSkills maps each request type to the skill set a responder is
// scored against. Unknown types fall back to genericSkills.
var requiredSkills = map[types.RequestType][]string{
	types.RequestTypeMedical:        {"medical", "first_aid", "healthcare", "emergency"},
	types.RequestTypeFood:           {"food", "cooking", "nutrition", "delivery"},
	types.RequestTypeShelter:        {"shelter", "construction", "carpentry", "housing"},
	types.RequestTypeTransportation: {"transportation", "driving", "logistics", "navigation"},
	types.RequestTypeRescue:         {"rescue", "search", "emergency", "first_aid"},
	types.RequestTypeSanitation:     {"sanitation", "cleaning", "plumbing", "maintenance"},
}

// genericSkills is the fallback required-skill set for unknown request types.
var genericSkills = []string{"general", "assistance", "support"}

// RequiredSkills returns the required-skill set for a request type.
//
// Parameters:
//   - requestType: The request type to look up
//
// Returns:
//   - []string: The required skills; the generic fallback set for unknown types
func RequiredSkills(requestType types.RequestType) []string {
	if skills, ok := requiredSkills[requestType]; ok {
		return skills
	}

	return genericSkills
}
