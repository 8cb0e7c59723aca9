package eligibility

import (
	"fmt"

	"recruiter-allocation/internal/models"
)

const (
	legacyEducationPoints  = 40
	legacyExperiencePoints = 40
	legacySkillPoints      = 20
)

// LegacyScore is the coarse three-factor scorer used when Score fails for a
// candidate. It tolerates malformed qualification and role data.
func (e *Engine) LegacyScore(candidate *models.Candidate, role *models.RoleRequirement) (*models.MatchResult, error) {
	if candidate == nil {
		return nil, fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role is nil", ErrInvalidRole)
	}

	result := &models.MatchResult{
		Reasons:             []string{},
		MissingRequirements: []string{},
	}

	// Education: any held qualification whose name mentions any requirement.
	educationOK := len(role.RequiredQualifications) == 0
	for _, req := range role.RequiredQualifications {
		if req.Qualification == nil {
			continue
		}
		for _, held := range candidate.Qualifications {
			if held.Qualification != nil && containsEither(req.Qualification.Name, held.Qualification.Name) {
				educationOK = true
				break
			}
		}
	}
	if educationOK {
		result.FactorScores.Education = 100
		result.Score += legacyEducationPoints
		result.Reasons = append(result.Reasons, "Education requirement present")
	} else {
		result.MissingRequirements = append(result.MissingRequirements, "Required qualification")
	}

	// Experience: inside the bounds, ignoring inverted or negative values.
	years := e.ExperienceYears(candidate)
	experienceOK := true
	if role.MinExperience != nil && years < *role.MinExperience {
		experienceOK = false
	}
	if role.MaxExperience != nil && *role.MaxExperience >= 0 && years > *role.MaxExperience {
		experienceOK = false
	}
	if experienceOK {
		result.FactorScores.Experience = 100
		result.Score += legacyExperiencePoints
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d years of experience within range", years))
	} else {
		result.MissingRequirements = append(result.MissingRequirements, "Experience outside required range")
	}

	// Skills: fraction of required skills found by substring.
	required := dedupeFold(role.Skills, role.TechnicalSkills)
	if len(required) == 0 {
		result.FactorScores.Skills = 100
		result.Score += legacySkillPoints
	} else {
		hits := 0
		for _, req := range required {
			for _, have := range candidate.Skills {
				if containsEither(req, have) {
					hits++
					break
				}
			}
		}
		result.FactorScores.Skills = hits * 100 / len(required)
		result.Score += hits * legacySkillPoints / len(required)
		if hits > 0 {
			result.Reasons = append(result.Reasons, fmt.Sprintf("%d of %d skills matched", hits, len(required)))
		}
	}

	result.FactorScores.Certifications = BaselineScore
	result.FactorScores.Location = BaselineScore
	result.Passes = educationOK && experienceOK
	result.Score = clampScore(result.Score)
	result.Reasons = append(result.Reasons, "Scored by legacy fallback")
	return result, nil
}
