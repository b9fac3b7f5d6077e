// Package resume holds the normalized, resume-derived data that feeds the
// matching engine: the structured extraction result, skill normalization
// and merge rules, and the vector summary used as the embedding query.
package resume

import "github.com/tidwall/gjson"

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

// Structured is the validated shape of an LLM extraction. All fields are
// defaulted at the boundary; downstream code never sees nil slices.
type Structured struct {
	Skills     []string     `json:"skills"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Summary    string       `json:"summary"`
}

// Fallback is the degraded structure substituted when extraction fails:
// empty lists and the raw resume text as the summary. It is valid input
// for the rest of the pipeline, not an error state.
func Fallback(rawText string) Structured {
	if rawText == "" {
		rawText = "Unable to parse resume"
	}
	return Structured{
		Skills:     []string{},
		Education:  []Education{},
		Experience: []Experience{},
		Projects:   []Project{},
		Summary:    rawText,
	}
}

// ParseStructured validates LLM output once, where it enters the system.
// Models wrap JSON in markdown fences or prose often enough that we locate
// the outermost object before parsing. Unparseable output yields the
// fallback structure and ok=false.
func ParseStructured(llmOutput, rawText string) (Structured, bool) {
	payload := extractJSONObject(llmOutput)
	if payload == "" || !gjson.Valid(payload) {
		return Fallback(rawText), false
	}

	root := gjson.Parse(payload)
	if !root.IsObject() {
		return Fallback(rawText), false
	}

	out := Structured{
		Skills:     []string{},
		Education:  []Education{},
		Experience: []Experience{},
		Projects:   []Project{},
		Summary:    root.Get("summary").String(),
	}

	for _, s := range root.Get("skills").Array() {
		out.Skills = append(out.Skills, s.String())
	}
	for _, e := range root.Get("education").Array() {
		out.Education = append(out.Education, Education{
			Degree:      e.Get("degree").String(),
			Institution: e.Get("institution").String(),
		})
	}
	for _, e := range root.Get("experience").Array() {
		out.Experience = append(out.Experience, Experience{
			Title:       e.Get("title").String(),
			Company:     e.Get("company").String(),
			Description: e.Get("description").String(),
		})
	}
	for _, p := range root.Get("projects").Array() {
		out.Projects = append(out.Projects, Project{
			Name:         p.Get("name").String(),
			Description:  p.Get("description").String(),
			Technologies: p.Get("technologies").String(),
		})
	}

	return out, true
}

func extractJSONObject(s string) string {
	start := -1
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
