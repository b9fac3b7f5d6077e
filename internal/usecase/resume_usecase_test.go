package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeStructurer struct {
	output string
	err    error
}

func (f *fakeStructurer) StructureResume(ctx context.Context, resumeText string) (string, error) {
	return f.output, f.err
}

type fakeProfileStore struct {
	profiles map[string]*model.CandidateProfile
	upserts  int
}

func (f *fakeProfileStore) FindByUserID(userID string) (*model.CandidateProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileStore) Upsert(profile *model.CandidateProfile) error {
	if f.profiles == nil {
		f.profiles = map[string]*model.CandidateProfile{}
	}
	clone := *profile
	f.profiles[profile.UserID] = &clone
	f.upserts++
	return nil
}

const structuredOutput = `{
  "skills": ["Python", "SQL"],
  "education": [],
  "experience": [],
  "projects": [],
  "summary": "Backend-minded student"
}`

func newResumeFixture(structurer Structurer, searcher VectorSearcher, catalog Catalog) (*ResumeUsecase, *fakeProfileStore) {
	store := &fakeProfileStore{}
	matcher := NewMatchUsecase(searcher, nil, catalog, 0, zap.NewNop())
	return NewResumeUsecase(store, structurer, matcher, 10, zap.NewNop()), store
}

func TestProcessUploadBuildsProfile(t *testing.T) {
	searcher := &fakeSearcher{neighbors: []vectorindex.Neighbor{neighbor("a", 0.5)}}
	catalog := &fakeCatalog{records: map[string]*model.Internship{
		"a": record("a", []string{"python"}, true),
	}}
	uc, store := newResumeFixture(&fakeStructurer{output: structuredOutput}, searcher, catalog)

	analysis, err := uc.ProcessUpload(context.Background(), "u1", "raw resume text")
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	if len(analysis.Skills) != 2 || analysis.Skills[0] != "python" {
		t.Fatalf("skills not normalized into profile: %v", analysis.Skills)
	}
	if len(analysis.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(analysis.Matches))
	}
	if analysis.Notice != "" {
		t.Fatalf("unexpected notice: %q", analysis.Notice)
	}

	saved, ok := store.profiles["u1"]
	if !ok {
		t.Fatal("profile was not persisted")
	}
	if !strings.Contains(saved.VectorSummary, "Backend-minded student") {
		t.Fatalf("vector summary missing structured content: %q", saved.VectorSummary)
	}
}

func TestProcessUploadStructurerErrorFallsBack(t *testing.T) {
	searcher := &fakeSearcher{}
	uc, store := newResumeFixture(&fakeStructurer{err: errors.New("model down")}, searcher, &fakeCatalog{})

	analysis, err := uc.ProcessUpload(context.Background(), "u1", "plain resume body text")
	if err != nil {
		t.Fatalf("ProcessUpload should degrade, not fail: %v", err)
	}

	if analysis.Structured.Summary != "plain resume body text" {
		t.Fatalf("fallback summary should carry the raw text, got %q", analysis.Structured.Summary)
	}
	if len(analysis.Skills) != 0 {
		t.Fatalf("fallback extraction should add no skills: %v", analysis.Skills)
	}
	if store.upserts != 1 {
		t.Fatalf("profile must still be saved on fallback, upserts=%d", store.upserts)
	}
}

func TestProcessUploadMergesSkillsAcrossUploads(t *testing.T) {
	searcher := &fakeSearcher{}
	uc, store := newResumeFixture(&fakeStructurer{output: structuredOutput}, searcher, &fakeCatalog{})
	store.profiles = map[string]*model.CandidateProfile{
		"u1": {UserID: "u1", Skills: []string{"go", "python"}},
	}

	analysis, err := uc.ProcessUpload(context.Background(), "u1", "raw")
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	want := []string{"go", "python", "sql"}
	if len(analysis.Skills) != len(want) {
		t.Fatalf("merged skills = %v, want %v", analysis.Skills, want)
	}
	for n := range want {
		if analysis.Skills[n] != want[n] {
			t.Fatalf("merged skills = %v, want %v", analysis.Skills, want)
		}
	}
}

func TestProcessUploadIndexUnavailableNotice(t *testing.T) {
	searcher := &fakeSearcher{err: vectorindex.ErrUnavailable}
	uc, store := newResumeFixture(&fakeStructurer{output: structuredOutput}, searcher, &fakeCatalog{})

	analysis, err := uc.ProcessUpload(context.Background(), "u1", "raw")
	if err != nil {
		t.Fatalf("index outage must not fail the upload: %v", err)
	}

	if analysis.Notice == "" {
		t.Fatal("expected a warming-up notice")
	}
	if len(analysis.Matches) != 0 {
		t.Fatalf("expected no matches, got %v", analysis.Matches)
	}
	if store.upserts != 1 {
		t.Fatal("profile must be saved even when the index is down")
	}
}

func TestMatchesUnknownUserEmpty(t *testing.T) {
	uc, _ := newResumeFixture(&fakeStructurer{}, &fakeSearcher{}, &fakeCatalog{})

	matches, err := uc.Matches(context.Background(), "nobody", 5)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", matches)
	}
}

func TestMatchesWithoutSummaryEmpty(t *testing.T) {
	searcher := &fakeSearcher{neighbors: []vectorindex.Neighbor{neighbor("a", 0.1)}}
	uc, store := newResumeFixture(&fakeStructurer{}, searcher, &fakeCatalog{})
	store.profiles = map[string]*model.CandidateProfile{
		"u1": {UserID: "u1", Skills: []string{"python"}},
	}

	matches, err := uc.Matches(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("profile without a summary should match nothing, got %v", matches)
	}
}

func TestUpdateSkillsReplaces(t *testing.T) {
	uc, store := newResumeFixture(&fakeStructurer{}, &fakeSearcher{}, &fakeCatalog{})
	store.profiles = map[string]*model.CandidateProfile{
		"u1": {UserID: "u1", Skills: []string{"python", "sql"}},
	}

	profile, err := uc.UpdateSkills(context.Background(), "u1", []string{" Go ", "Docker", ""})
	if err != nil {
		t.Fatalf("UpdateSkills: %v", err)
	}

	want := []string{"go", "docker"}
	if len(profile.Skills) != len(want) || profile.Skills[0] != "go" || profile.Skills[1] != "docker" {
		t.Fatalf("skills = %v, want %v", profile.Skills, want)
	}
	if saved := store.profiles["u1"]; len(saved.Skills) != 2 {
		t.Fatalf("replacement not persisted: %v", saved.Skills)
	}
}

func TestMatchForInternship(t *testing.T) {
	searcher := &fakeSearcher{neighbors: []vectorindex.Neighbor{
		neighbor("a", 0.1),
		neighbor("b", 0.2),
	}}
	catalog := &fakeCatalog{records: map[string]*model.Internship{
		"a": record("a", []string{"python"}, true),
		"b": record("b", []string{"java"}, true),
	}}
	uc, store := newResumeFixture(&fakeStructurer{}, searcher, catalog)
	store.profiles = map[string]*model.CandidateProfile{
		"u1": {UserID: "u1", Skills: []string{"python"}, VectorSummary: "summary"},
	}

	match, err := uc.MatchForInternship(context.Background(), "u1", "b")
	if err != nil {
		t.Fatalf("MatchForInternship: %v", err)
	}
	if match == nil || match.InternshipID != "b" {
		t.Fatalf("expected match for b, got %+v", match)
	}

	missing, err := uc.MatchForInternship(context.Background(), "u1", "zzz")
	if err != nil {
		t.Fatalf("MatchForInternship: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for an unknown posting, got %+v", missing)
	}
}

func TestMatchForInternshipIndexDown(t *testing.T) {
	searcher := &fakeSearcher{err: vectorindex.ErrUnavailable}
	uc, store := newResumeFixture(&fakeStructurer{}, searcher, &fakeCatalog{})
	store.profiles = map[string]*model.CandidateProfile{
		"u1": {UserID: "u1", Skills: []string{"python"}, VectorSummary: "summary"},
	}

	match, err := uc.MatchForInternship(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("index outage should be silent here: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match, got %+v", match)
	}
}
