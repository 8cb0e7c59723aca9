// internal/models/role.go
package models

type RequiredQualification struct {
	Qualification *Qualification `json:"qualification"`
	Mandatory     bool           `json:"mandatory"`
}

type RoleRequirement struct {
	ID                     string                  `json:"id"`
	ProjectID              string                  `json:"projectId"`
	MinExperience          *int                    `json:"minExperience,omitempty"`
	MaxExperience          *int                    `json:"maxExperience,omitempty"`
	RequiredQualifications []RequiredQualification `json:"requiredQualifications"`
	Skills                 []string                `json:"skills"`
	TechnicalSkills        []string                `json:"technicalSkills"`
}

const RoleStatusOpen = "open"
