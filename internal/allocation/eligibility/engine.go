// Package eligibility scores a candidate against an open role.
//
// Scoring is a pure function of the loaded candidate and role snapshots.
// Education and experience gate eligibility; skills, certifications and
// location only shape the ranking score.
package eligibility

import (
	"errors"
	"fmt"
	"math"
	"time"

	"recruiter-allocation/internal/models"
)

const (
	WeightEducation      = 0.35
	WeightExperience     = 0.30
	WeightSkills         = 0.20
	WeightCertifications = 0.10
	WeightLocation       = 0.05

	// BaselineScore is returned by factors that have nothing to compare.
	BaselineScore = 50
)

var (
	ErrInvalidCandidate       = errors.New("INVALID_CANDIDATE")
	ErrInvalidRole            = errors.New("INVALID_ROLE")
	ErrMalformedQualification = errors.New("MALFORMED_QUALIFICATION")
)

type factorResult struct {
	score   int
	passes  bool
	reasons []string
	missing []string
}

type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the time used to close open employment intervals.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the composite match result for one candidate and one role.
func (e *Engine) Score(candidate *models.Candidate, role *models.RoleRequirement) (*models.MatchResult, error) {
	if candidate == nil {
		return nil, fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role is nil", ErrInvalidRole)
	}

	education, err := e.scoreEducation(candidate, role)
	if err != nil {
		return nil, err
	}
	experience, err := e.scoreExperience(e.ExperienceYears(candidate), role)
	if err != nil {
		return nil, err
	}
	skills := e.scoreSkills(candidate, role)
	certifications := e.scoreCertifications(candidate, role)
	location := e.scoreLocation(candidate, role)

	composite := float64(education.score)*WeightEducation +
		float64(experience.score)*WeightExperience +
		float64(skills.score)*WeightSkills +
		float64(certifications.score)*WeightCertifications +
		float64(location.score)*WeightLocation

	result := &models.MatchResult{
		Passes: education.passes && experience.passes,
		Score:  clampScore(int(math.Round(composite))),
		FactorScores: models.FactorScores{
			Education:      education.score,
			Experience:     experience.score,
			Skills:         skills.score,
			Certifications: certifications.score,
			Location:       location.score,
		},
		Reasons:             []string{},
		MissingRequirements: []string{},
	}
	for _, f := range []factorResult{education, experience, skills, certifications, location} {
		result.Reasons = append(result.Reasons, f.reasons...)
		result.MissingRequirements = append(result.MissingRequirements, f.missing...)
	}

	return result, nil
}

// Certifications are not yet modelled on roles; the factor is a neutral
// pass-through until they are.
func (e *Engine) scoreCertifications(_ *models.Candidate, _ *models.RoleRequirement) factorResult {
	return factorResult{score: BaselineScore, passes: true}
}

// Location preferences are not yet modelled; neutral pass-through.
func (e *Engine) scoreLocation(_ *models.Candidate, _ *models.RoleRequirement) factorResult {
	return factorResult{score: BaselineScore, passes: true}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
