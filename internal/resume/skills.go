package resume

import "strings"

// Normalize trims, lower-cases and drops blank skill tokens so overlap
// comparison is exact-match. Idempotent.
func Normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		out = append(out, skill)
	}
	return out
}

// MergeSkills unions newly extracted skills into the existing list,
// keeping the existing order and appending only unseen entries. Skills
// are never removed here; removal is an explicit user action.
func MergeSkills(existing, extracted []string) []string {
	merged := make([]string, 0, len(existing)+len(extracted))
	seen := make(map[string]bool, len(existing)+len(extracted))

	for _, skill := range Normalize(existing) {
		if seen[skill] {
			continue
		}
		seen[skill] = true
		merged = append(merged, skill)
	}
	for _, skill := range Normalize(extracted) {
		if seen[skill] {
			continue
		}
		seen[skill] = true
		merged = append(merged, skill)
	}
	return merged
}
