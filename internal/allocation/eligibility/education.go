package eligibility

import (
	"fmt"
	"strings"

	"recruiter-allocation/internal/models"
)

// Strengths of the education matching ladder, strongest first.
const (
	matchDirectName  = 100
	matchShortName   = 95
	matchAlias       = 90
	matchEquivalency = 85
	matchFieldLevel  = 70
)

var ladderRuleNames = map[int]string{
	matchDirectName:  "name match",
	matchShortName:   "short name match",
	matchAlias:       "alias match",
	matchEquivalency: "declared equivalency",
	matchFieldLevel:  "field and level match",
}

func (e *Engine) scoreEducation(candidate *models.Candidate, role *models.RoleRequirement) (factorResult, error) {
	if len(role.RequiredQualifications) == 0 {
		return factorResult{
			score:   BaselineScore,
			passes:  true,
			reasons: []string{"No specific qualification requirement"},
		}, nil
	}

	for i, held := range candidate.Qualifications {
		if held.Qualification == nil {
			return factorResult{}, fmt.Errorf("%w: candidate %s qualification #%d has no catalog entry",
				ErrMalformedQualification, candidate.ID, i)
		}
	}

	result := factorResult{}
	for i, req := range role.RequiredQualifications {
		if req.Qualification == nil {
			return factorResult{}, fmt.Errorf("%w: role %s requirement #%d has no catalog entry",
				ErrMalformedQualification, role.ID, i)
		}

		reqBest := 0
		var matchedBy *models.Qualification
		for _, held := range candidate.Qualifications {
			strength := matchQualification(req.Qualification, held.Qualification)
			if strength > reqBest {
				reqBest = strength
				matchedBy = held.Qualification
			}
			if reqBest == matchDirectName {
				break
			}
		}

		if reqBest == 0 {
			kind := "preferred"
			if req.Mandatory {
				kind = "mandatory"
			}
			result.missing = append(result.missing,
				fmt.Sprintf("Qualification %q (%s)", req.Qualification.Name, kind))
			continue
		}

		result.reasons = append(result.reasons, fmt.Sprintf("Qualification %q satisfied by %q (%s)",
			req.Qualification.Name, matchedBy.Name, ladderRuleNames[reqBest]))
		if reqBest > result.score {
			result.score = reqBest
		}
	}

	result.passes = result.score > 0
	return result, nil
}

// matchQualification walks the ladder for one requirement and one held
// qualification. The first rule that hits decides the strength.
func matchQualification(req, held *models.Qualification) int {
	switch {
	case directNameMatch(req, held):
		return matchDirectName
	case shortNameMatch(req, held):
		return matchShortName
	case aliasMatch(req, held):
		return matchAlias
	case equivalencyMatch(req, held):
		return matchEquivalency
	case fieldLevelMatch(req, held):
		return matchFieldLevel
	}
	return 0
}

// directNameMatch covers the same catalog entry, containment of the full
// names (abbreviations expanded), and a holding recorded under exactly the
// requirement's short name (or the reverse).
func directNameMatch(req, held *models.Qualification) bool {
	if req.ID != "" && req.ID == held.ID {
		return true
	}
	if containsEither(req.Name, held.Name) || sameQualificationName(req.Name, held.Name) {
		return true
	}
	if req.ShortName != "" && normalize(req.ShortName) == normalize(held.Name) {
		return true
	}
	return held.ShortName != "" && normalize(held.ShortName) == normalize(req.Name)
}

func shortNameMatch(req, held *models.Qualification) bool {
	if req.ShortName != "" {
		if sameQualificationName(req.ShortName, held.Name) || sameQualificationName(req.ShortName, held.ShortName) {
			return true
		}
	}
	return held.ShortName != "" && sameQualificationName(held.ShortName, req.Name)
}

func aliasMatch(req, held *models.Qualification) bool {
	for _, alias := range req.Aliases {
		if containsEither(alias, held.Name) || containsEither(alias, held.ShortName) {
			return true
		}
	}
	return false
}

func equivalencyMatch(req, held *models.Qualification) bool {
	for _, eq := range req.Equivalencies {
		if eq.ID != "" && eq.ID == held.ID {
			return true
		}
		if containsEither(eq.Name, held.Name) {
			return true
		}
		if eq.ShortName != "" && containsEither(eq.ShortName, held.Name) {
			return true
		}
	}
	return false
}

// fieldLevelMatch requires both the field keyword and the level keyword of
// the requirement to show up in the held qualification's name.
func fieldLevelMatch(req, held *models.Qualification) bool {
	field, level := normalize(req.Field), normalize(req.Level)
	if field == "" || level == "" {
		return false
	}
	return mentions(held.Name, field, fieldSynonyms) && mentions(held.Name, level, levelSynonyms)
}

func mentions(text, keyword string, synonyms map[string][]string) bool {
	if containsKeyword(text, keyword) {
		return true
	}
	for key, words := range synonyms {
		if key != keyword && !strings.Contains(keyword, key) {
			continue
		}
		for _, w := range words {
			if containsKeyword(text, w) {
				return true
			}
		}
	}
	return false
}
