package eligibility

import (
	"fmt"
	"math"
	"strings"

	"recruiter-allocation/internal/models"
)

// Match strengths between two skill phrases.
const (
	skillExact     = 100
	skillSynonym   = 90
	skillSubstring = 80
	skillToken     = 60
	skillCategory  = 40

	// skillMatchThreshold is the minimum strength that counts as matched.
	skillMatchThreshold = skillToken
)

func (e *Engine) scoreSkills(candidate *models.Candidate, role *models.RoleRequirement) factorResult {
	required := dedupeFold(role.Skills, role.TechnicalSkills)
	if len(required) == 0 {
		return factorResult{
			score:   BaselineScore,
			passes:  true,
			reasons: []string{"No specific skill requirement"},
		}
	}

	result := factorResult{passes: true}
	total := 0
	for _, req := range required {
		best, bestSkill := 0, ""
		for _, have := range candidate.Skills {
			if s := skillStrength(req, have); s > best {
				best, bestSkill = s, have
			}
			if best == skillExact {
				break
			}
		}
		total += best

		if best >= skillMatchThreshold {
			result.reasons = append(result.reasons, fmt.Sprintf("Skill %q matched by %q", req, bestSkill))
		} else {
			result.missing = append(result.missing, fmt.Sprintf("Skill %q", req))
		}
	}

	result.score = clampScore(int(math.Round(float64(total) / float64(len(required)))))
	return result
}

func skillStrength(a, b string) int {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0
	}
	switch {
	case a == b:
		return skillExact
	case sameSynonymGroup(a, b):
		return skillSynonym
	case strings.Contains(a, b) || strings.Contains(b, a):
		return skillSubstring
	case shareToken(a, b):
		return skillToken
	case sameCategory(a, b):
		return skillCategory
	}
	return 0
}

func sameSynonymGroup(a, b string) bool {
	for _, group := range skillSynonymGroups {
		inA, inB := false, false
		for _, term := range group {
			if a == term {
				inA = true
			}
			if b == term {
				inB = true
			}
		}
		if inA && inB {
			return true
		}
	}
	return false
}

func sameCategory(a, b string) bool {
	for _, members := range skillCategories {
		if inCategory(a, members) && inCategory(b, members) {
			return true
		}
	}
	return false
}

func inCategory(phrase string, members []string) bool {
	for _, m := range members {
		if containsKeyword(phrase, m) {
			return true
		}
	}
	return false
}
