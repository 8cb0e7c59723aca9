// internal/workers/allocation/allocate-candidates-for-role/models.go
package allocatecandidatesforrole

import "recruiter-allocation/internal/models"

type Input struct {
	ProjectID   string `json:"projectId"`
	RoleID      string `json:"roleId"`
	CandidateID string `json:"candidateId,omitempty"`
	BatchSize   *int   `json:"batchSize,omitempty"`
}

type Output struct {
	Considered        int                 `json:"considered"`
	Assigned          int                 `json:"assigned"`
	SkippedDuplicates int                 `json:"skippedDuplicates"`
	Errors            []string            `json:"errors"`
	Assignments       []models.Assignment `json:"assignments"`
	Stopped           bool                `json:"stopped"`
}
