package dto

// MatchResult is one scored recommendation. Ephemeral: recomputed on
// every request, never persisted.
type MatchResult struct {
	InternshipID        string   `json:"internship_id"`
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	FaissScore          float64  `json:"faiss_score"`
	SkillScore          float64  `json:"skill_score"`
	FinalScore          float64  `json:"final_score"`
	MatchPercentage     float64  `json:"match_percentage"`
	MatchingSkills      []string `json:"matching_skills"`
	NonMatchingSkills   []string `json:"non_matching_skills"`
	MatchingSkillsCount int      `json:"matching_skills_count"`
	TotalSkillsCount    int      `json:"total_skills_count"`
}
