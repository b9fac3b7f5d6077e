package resume

import (
	"fmt"
	"strings"
)

const (
	maxExperienceEntries     = 3
	maxProjectEntries        = 3
	maxEducationEntries      = 2
	maxExperienceDescription = 150
)

// VectorSummary builds the single text blob that gets embedded as the
// candidate's query vector. Sections appear in a fixed order and empty
// sections are omitted entirely, so the same structured input always
// produces the same string.
func VectorSummary(data Structured) string {
	var parts []string

	if data.Summary != "" {
		parts = append(parts, "Summary: "+data.Summary)
	}

	if len(data.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(data.Skills, ", "))
	}

	if len(data.Experience) > 0 {
		blocks := make([]string, 0, maxExperienceEntries)
		for _, e := range firstN(data.Experience, maxExperienceEntries) {
			blocks = append(blocks, fmt.Sprintf("%s at %s: %s",
				e.Title, e.Company, truncate(e.Description, maxExperienceDescription)))
		}
		parts = append(parts, "Experience: "+strings.Join(blocks, " | "))
	}

	if len(data.Projects) > 0 {
		blocks := make([]string, 0, maxProjectEntries)
		for _, p := range firstN(data.Projects, maxProjectEntries) {
			blocks = append(blocks, fmt.Sprintf("%s: %s (%s)", p.Name, p.Description, p.Technologies))
		}
		parts = append(parts, "Projects: "+strings.Join(blocks, " | "))
	}

	if len(data.Education) > 0 {
		blocks := make([]string, 0, maxEducationEntries)
		for _, e := range firstN(data.Education, maxEducationEntries) {
			blocks = append(blocks, fmt.Sprintf("%s from %s", e.Degree, e.Institution))
		}
		parts = append(parts, "Education: "+strings.Join(blocks, " | "))
	}

	return strings.Join(parts, "\n")
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
