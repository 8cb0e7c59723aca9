// internal/workers/allocation/allocate-candidates-for-project/models.go
package allocatecandidatesforproject

type Input struct {
	ProjectID string `json:"projectId"`
	BatchSize *int   `json:"batchSize,omitempty"`
}

type RoleSummary struct {
	RoleID            string   `json:"roleId"`
	Considered        int      `json:"considered"`
	Assigned          int      `json:"assigned"`
	SkippedDuplicates int      `json:"skippedDuplicates"`
	Errors            []string `json:"errors"`
	Stopped           bool     `json:"stopped"`
	Error             string   `json:"error,omitempty"`
}

type Output struct {
	ProjectID   string        `json:"projectId"`
	Assigned    int           `json:"assigned"`
	FailedRoles int           `json:"failedRoles"`
	Roles       []RoleSummary `json:"roles"`
}
