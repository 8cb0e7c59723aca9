// internal/models/notification.go
package models

const EventCandidateAssigned = "candidate.assigned"

type CandidateAssignedEvent struct {
	EventID        string   `json:"eventId"`
	Type           string   `json:"type"`
	AssignmentID   string   `json:"assignmentId"`
	CandidateID    string   `json:"candidateId"`
	ProjectID      string   `json:"projectId"`
	RoleID         string   `json:"roleId"`
	RecruiterID    string   `json:"recruiterId"`
	RecruiterName  string   `json:"recruiterName,omitempty"`
	RecruiterEmail string   `json:"recruiterEmail,omitempty"`
	Score          int      `json:"score"`
	Reasons        []string `json:"reasons"`
	OccurredAt     string   `json:"occurredAt"` // ISO 8601
}
