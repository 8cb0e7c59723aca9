// internal/workers/allocation/check-candidate-eligibility/models.go
package checkcandidateeligibility

import "recruiter-allocation/internal/models"

type Input struct {
	ProjectID   string `json:"projectId"`
	RoleID      string `json:"roleId"`
	CandidateID string `json:"candidateId"`
}

type Output struct {
	Eligible            bool                `json:"eligible"`
	Passes              bool                `json:"passes"`
	Score               int                 `json:"score"`
	Reasons             []string            `json:"reasons"`
	MissingRequirements []string            `json:"missingRequirements"`
	FactorScores        models.FactorScores `json:"perFactorScores"`
	Fallback            bool                `json:"fallback"`
}
