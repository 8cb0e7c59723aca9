// internal/models/assignment.go
package models

import "time"

type Assignment struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidateId"`
	ProjectID   string    `json:"projectId"`
	RoleID      string    `json:"roleId"`
	RecruiterID string    `json:"recruiterId"`
	MatchScore  int       `json:"matchScore"`
	AssignedAt  time.Time `json:"assignedAt"`
}
