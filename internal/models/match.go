// internal/models/match.go
package models

type FactorScores struct {
	Education      int `json:"education"`
	Experience     int `json:"experience"`
	Skills         int `json:"skills"`
	Certifications int `json:"certifications"`
	Location       int `json:"location"`
}

// MatchResult is produced per (candidate, role) and consumed immediately.
type MatchResult struct {
	Passes              bool         `json:"passes"`
	Score               int          `json:"score"`
	FactorScores        FactorScores `json:"perFactorScores"`
	Reasons             []string     `json:"reasons"`
	MissingRequirements []string     `json:"missingRequirements"`
}

type EligibleCandidate struct {
	CandidateID  string       `json:"candidateId"`
	Score        int          `json:"score"`
	MatchReasons []string     `json:"matchReasons"`
	Result       *MatchResult `json:"result,omitempty"`
	Fallback     bool         `json:"fallback,omitempty"`
}
