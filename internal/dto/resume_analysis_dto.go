package dto

import "github.com/jadhavaryan403/AI-Internship-Recommender/internal/resume"

// ResumeAnalysis is the upload endpoint's payload: the structured
// extraction, the merged profile skills and the fresh match list.
type ResumeAnalysis struct {
	Structured resume.Structured `json:"structured_data"`
	Skills     []string          `json:"skills"`
	Matches    []MatchResult     `json:"matches"`
	Notice     string            `json:"notice,omitempty"`
}
