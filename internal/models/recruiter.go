// internal/models/recruiter.go
package models

type Recruiter struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email,omitempty"`
	CurrentOpenWorkload int    `json:"currentOpenWorkload"`
}
