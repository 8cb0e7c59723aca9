// internal/workers/allocation/find-eligible-candidates/models.go
package findeligiblecandidates

import (
	"recruiter-allocation/internal/allocation/matching"
	"recruiter-allocation/internal/models"
)

type Input struct {
	ProjectID   string `json:"projectId"`
	RoleID      string `json:"roleId"`
	CandidateID string `json:"candidateId,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type Output struct {
	Considered int                         `json:"considered"`
	Total      int                         `json:"total"`
	Candidates []models.EligibleCandidate  `json:"candidates"`
	Failures   []matching.CandidateFailure `json:"failures"`
}
