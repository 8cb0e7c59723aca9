// Package matching builds the ranked list of eligible candidates for a role.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/metrics"
	"recruiter-allocation/internal/models"
)

var (
	ErrRoleNotFound      = errors.New("ROLE_NOT_FOUND")
	ErrCandidateNotFound = errors.New("CANDIDATE_NOT_FOUND")
	ErrQueryFailed       = errors.New("QUERY_EXECUTION_FAILED")
	ErrScoringFailed     = errors.New("SCORING_FAILED")
)

type RoleSource interface {
	LoadRole(ctx context.Context, projectID, roleID string) (*models.RoleRequirement, error)
}

type CandidateSource interface {
	ListCandidates(ctx context.Context, projectID, roleID, candidateID string) ([]*models.Candidate, error)
}

// Scorer is implemented by eligibility.Engine.
type Scorer interface {
	Score(candidate *models.Candidate, role *models.RoleRequirement) (*models.MatchResult, error)
	LegacyScore(candidate *models.Candidate, role *models.RoleRequirement) (*models.MatchResult, error)
}

// CandidateFailure records a candidate that neither scorer could handle.
type CandidateFailure struct {
	CandidateID string `json:"candidateId"`
	Error       string `json:"error"`
}

// Outcome is the ranked result of one FindEligible call.
type Outcome struct {
	Role       *models.RoleRequirement    `json:"-"`
	Considered int                        `json:"considered"`
	Candidates []models.EligibleCandidate `json:"candidates"`
	Failures   []CandidateFailure         `json:"failures"`
}

type Pipeline struct {
	roles      RoleSource
	candidates CandidateSource
	scorer     Scorer
	logger     logger.Logger
}

func NewPipeline(roles RoleSource, candidates CandidateSource, scorer Scorer, log logger.Logger) *Pipeline {
	return &Pipeline{
		roles:      roles,
		candidates: candidates,
		scorer:     scorer,
		logger:     log.WithFields(map[string]interface{}{"component": "matching"}),
	}
}

// FindEligible scores every candidate in the role's universe and returns
// those with an effective score above zero, best first. Candidates that
// fail the eligibility gate count as zero. Ties keep source order.
func (p *Pipeline) FindEligible(ctx context.Context, projectID, roleID, candidateID string) (*Outcome, error) {
	role, err := p.roles.LoadRole(ctx, projectID, roleID)
	if err != nil {
		return nil, err
	}

	candidates, err := p.candidates.ListCandidates(ctx, projectID, roleID, candidateID)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Role:       role,
		Considered: len(candidates),
		Candidates: []models.EligibleCandidate{},
		Failures:   []CandidateFailure{},
	}

	for _, c := range candidates {
		result, fallback, err := p.scoreOne(c, role)
		if err != nil {
			p.logger.Error("candidate could not be scored", map[string]interface{}{
				"candidateId": c.ID,
				"roleId":      roleID,
				"error":       err,
			})
			outcome.Failures = append(outcome.Failures, CandidateFailure{CandidateID: c.ID, Error: err.Error()})
			continue
		}

		if !result.Passes || result.Score <= 0 {
			p.logger.Debug("candidate not eligible", map[string]interface{}{
				"candidateId": c.ID,
				"score":       result.Score,
				"missing":     result.MissingRequirements,
			})
			continue
		}

		outcome.Candidates = append(outcome.Candidates, models.EligibleCandidate{
			CandidateID:  c.ID,
			Score:        result.Score,
			MatchReasons: result.Reasons,
			Result:       result,
			Fallback:     fallback,
		})
	}

	sort.SliceStable(outcome.Candidates, func(i, j int) bool {
		return outcome.Candidates[i].Score > outcome.Candidates[j].Score
	})

	p.logger.Info("eligible candidates ranked", map[string]interface{}{
		"projectId":  projectID,
		"roleId":     roleID,
		"considered": outcome.Considered,
		"eligible":   len(outcome.Candidates),
		"failures":   len(outcome.Failures),
	})
	return outcome, nil
}

// scoreOne runs the full engine and falls back to the legacy scorer when it
// errors or panics.
func (p *Pipeline) scoreOne(c *models.Candidate, role *models.RoleRequirement) (result *models.MatchResult, fallback bool, err error) {
	result, err = safeScore(p.scorer.Score, c, role)
	if err == nil {
		return result, false, nil
	}

	p.logger.Warn("eligibility engine failed, using legacy scorer", map[string]interface{}{
		"candidateId": c.ID,
		"roleId":      role.ID,
		"error":       err,
	})
	metrics.ScoringFallbacks.Inc()

	legacy, legacyErr := safeScore(p.scorer.LegacyScore, c, role)
	if legacyErr != nil {
		return nil, true, fmt.Errorf("%w: candidate %s: %v; legacy: %v", ErrScoringFailed, c.ID, err, legacyErr)
	}
	return legacy, true, nil
}

func safeScore(fn func(*models.Candidate, *models.RoleRequirement) (*models.MatchResult, error),
	c *models.Candidate, role *models.RoleRequirement) (result *models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("scorer panic: %v", r)
		}
	}()

	result, err = fn(c, role)
	if err == nil && result == nil {
		err = errors.New("scorer returned no result")
	}
	return result, err
}

// Evaluation is the verdict for a single candidate against a role.
type Evaluation struct {
	CandidateID string              `json:"candidateId"`
	RoleID      string              `json:"roleId"`
	Eligible    bool                `json:"eligible"`
	Result      *models.MatchResult `json:"result"`
	Fallback    bool                `json:"fallback"`
}

// Evaluate scores one already loaded candidate with the same engine, fallback
// and inclusion rule as FindEligible. Pipeline state is not consulted.
func (p *Pipeline) Evaluate(ctx context.Context, projectID, roleID string, c *models.Candidate) (*Evaluation, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: candidate is required", ErrScoringFailed)
	}
	role, err := p.roles.LoadRole(ctx, projectID, roleID)
	if err != nil {
		return nil, err
	}

	result, fallback, err := p.scoreOne(c, role)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		CandidateID: c.ID,
		RoleID:      role.ID,
		Eligible:    result.Passes && result.Score > 0,
		Result:      result,
		Fallback:    fallback,
	}, nil
}
