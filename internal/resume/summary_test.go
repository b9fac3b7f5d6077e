package resume

import (
	"strings"
	"testing"
)

func fullStructured() Structured {
	return Structured{
		Summary: "Final-year CS student interested in backend work.",
		Skills:  []string{"python", "sql", "docker"},
		Experience: []Experience{
			{Title: "Backend Intern", Company: "Acme", Description: "Built REST APIs."},
			{Title: "Tutor", Company: "University", Description: "Taught programming."},
			{Title: "Volunteer", Company: "NGO", Description: "Maintained the website."},
			{Title: "Ignored", Company: "FourthCo", Description: "Beyond the cap."},
		},
		Projects: []Project{
			{Name: "Chatbot", Description: "FAQ bot", Technologies: "python, flask"},
		},
		Education: []Education{
			{Degree: "B.Tech CSE", Institution: "IIT"},
			{Degree: "HSC", Institution: "State Board"},
			{Degree: "Ignored", Institution: "Beyond the cap"},
		},
	}
}

func TestVectorSummaryDeterministic(t *testing.T) {
	data := fullStructured()

	first := VectorSummary(data)
	second := VectorSummary(data)
	if first != second {
		t.Fatal("same structured input produced different summaries")
	}
}

func TestVectorSummarySectionsInOrder(t *testing.T) {
	got := VectorSummary(fullStructured())

	labels := []string{"Summary:", "Skills:", "Experience:", "Projects:", "Education:"}
	last := -1
	for _, label := range labels {
		idx := strings.Index(got, label)
		if idx == -1 {
			t.Fatalf("missing section %q in %q", label, got)
		}
		if idx < last {
			t.Fatalf("section %q out of order in %q", label, got)
		}
		last = idx
	}

	if !strings.Contains(got, "Skills: python, sql, docker") {
		t.Fatalf("skills line malformed: %q", got)
	}
}

func TestVectorSummaryOmitsEmptySections(t *testing.T) {
	got := VectorSummary(Structured{Skills: []string{"go"}})

	if strings.Contains(got, "Summary:") ||
		strings.Contains(got, "Experience:") ||
		strings.Contains(got, "Projects:") ||
		strings.Contains(got, "Education:") {
		t.Fatalf("empty sections should be omitted: %q", got)
	}
	if got != "Skills: go" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestVectorSummaryCapsEntries(t *testing.T) {
	got := VectorSummary(fullStructured())

	if strings.Contains(got, "FourthCo") {
		t.Fatalf("more than 3 experience entries included: %q", got)
	}
	if strings.Contains(got, "Beyond the cap") {
		t.Fatalf("more than 2 education entries included: %q", got)
	}
}

func TestVectorSummaryTruncatesDescriptions(t *testing.T) {
	long := strings.Repeat("x", 400)
	data := Structured{
		Experience: []Experience{{Title: "Intern", Company: "Acme", Description: long}},
	}

	got := VectorSummary(data)
	if strings.Contains(got, strings.Repeat("x", 151)) {
		t.Fatalf("experience description not truncated: %d chars", len(got))
	}
	if !strings.Contains(got, strings.Repeat("x", 150)) {
		t.Fatal("truncation cut below the bound")
	}
}

func TestVectorSummaryEmptyInput(t *testing.T) {
	if got := VectorSummary(Structured{}); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}
