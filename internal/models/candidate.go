// internal/models/candidate.go
package models

import "time"

// Qualification is a catalog entry. Aliases and Equivalencies are only
// populated for qualifications that appear as role requirements.
type Qualification struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ShortName     string          `json:"shortName,omitempty"`
	Field         string          `json:"field,omitempty"`
	Level         string          `json:"level,omitempty"`
	Aliases       []string        `json:"aliases,omitempty"`
	Equivalencies []Qualification `json:"equivalencies,omitempty"`
}

type CandidateQualification struct {
	Qualification *Qualification `json:"qualification"`
}

// EmploymentInterval with a nil End is still running.
type EmploymentInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

type Candidate struct {
	ID                   string                   `json:"id"`
	TotalExperienceYears *int                     `json:"totalExperienceYears,omitempty"`
	Skills               []string                 `json:"skills"`
	Qualifications       []CandidateQualification `json:"qualifications"`
	Employment           []EmploymentInterval     `json:"employmentIntervals"`
}

// Pipeline statuses that commit a candidate globally; a candidate holding
// one of these on any project is not offered to another role.
const (
	CandidateStatusSelected   = "selected"
	CandidateStatusProcessing = "processing"
	CandidateStatusHired      = "hired"
)

var CommittedCandidateStatuses = []string{
	CandidateStatusSelected,
	CandidateStatusProcessing,
	CandidateStatusHired,
}
