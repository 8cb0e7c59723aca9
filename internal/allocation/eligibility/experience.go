package eligibility

import (
	"fmt"
	"math"

	"recruiter-allocation/internal/models"
)

const (
	daysPerMonth = 30.44

	// optimalSpan is how far above the minimum a candidate still scores 100.
	optimalSpan = 5
)

// ExperienceYears resolves a candidate's experience: the explicit total if
// present and non-zero, otherwise the summed employment intervals.
func (e *Engine) ExperienceYears(candidate *models.Candidate) int {
	if candidate.TotalExperienceYears != nil && *candidate.TotalExperienceYears != 0 {
		return *candidate.TotalExperienceYears
	}

	now := e.now()
	months := 0
	for _, interval := range candidate.Employment {
		end := now
		if interval.End != nil {
			end = *interval.End
		}
		days := math.Abs(end.Sub(interval.Start).Hours() / 24)
		months += int(math.Floor(days / daysPerMonth))
	}
	return months / 12
}

// scoreExperience applies a single policy for every entry point: below the
// minimum is a hard fail, above the maximum passes with a graded score.
func (e *Engine) scoreExperience(years int, role *models.RoleRequirement) (factorResult, error) {
	minExp, maxExp := role.MinExperience, role.MaxExperience
	if (minExp != nil && *minExp < 0) || (maxExp != nil && *maxExp < 0) {
		return factorResult{}, fmt.Errorf("%w: role %s has negative experience bounds", ErrInvalidRole, role.ID)
	}
	if minExp != nil && maxExp != nil && *minExp > *maxExp {
		return factorResult{}, fmt.Errorf("%w: role %s minimum experience %d exceeds maximum %d",
			ErrInvalidRole, role.ID, *minExp, *maxExp)
	}

	if minExp == nil && maxExp == nil {
		return factorResult{
			score:   BaselineScore,
			passes:  true,
			reasons: []string{"No specific experience requirement"},
		}, nil
	}

	lower := 0
	if minExp != nil {
		lower = *minExp
	}

	if years < lower {
		return factorResult{
			score:   0,
			passes:  false,
			missing: []string{fmt.Sprintf("Minimum %d years of experience required (has %d)", lower, years)},
		}, nil
	}

	if maxExp != nil && years > *maxExp {
		over := years - *maxExp
		score := 40
		switch {
		case over <= 2:
			score = 90
		case over <= 5:
			score = 70
		}
		return factorResult{
			score:   score,
			passes:  true,
			reasons: []string{fmt.Sprintf("Overqualified: %d years of experience, %d over the maximum of %d", years, over, *maxExp)},
		}, nil
	}

	optimalTop := lower + optimalSpan
	if maxExp != nil && optimalTop > *maxExp {
		optimalTop = *maxExp
	}
	if years <= optimalTop {
		return factorResult{
			score:   100,
			passes:  true,
			reasons: []string{fmt.Sprintf("%d years of experience is in the optimal range %d-%d", years, lower, optimalTop)},
		}, nil
	}

	return factorResult{
		score:   80,
		passes:  true,
		reasons: []string{fmt.Sprintf("%d years of experience meets the requirement", years)},
	}, nil
}
