package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/dto"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/resume"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Structurer turns raw resume text into the model's JSON extraction.
type Structurer interface {
	StructureResume(ctx context.Context, resumeText string) (string, error)
}

// ProfileStore persists candidate profiles keyed by user id.
type ProfileStore interface {
	FindByUserID(userID string) (*model.CandidateProfile, error)
	Upsert(profile *model.CandidateProfile) error
}

// ResumeUsecase runs the upload pipeline: structure the extracted text,
// merge skills into the profile, regenerate the vector summary, persist,
// and compute fresh matches.
type ResumeUsecase struct {
	profiles   ProfileStore
	structurer Structurer
	matcher    *MatchUsecase
	topK       int
	log        *zap.Logger
}

func NewResumeUsecase(profiles ProfileStore, structurer Structurer, matcher *MatchUsecase, topK int, log *zap.Logger) *ResumeUsecase {
	if topK < 1 {
		topK = 10
	}
	return &ResumeUsecase{profiles: profiles, structurer: structurer, matcher: matcher, topK: topK, log: log}
}

// ProcessUpload ingests one resume's extracted text for the given user.
// Structuring failures degrade to the fallback structure instead of
// failing the upload; an unavailable index still saves the profile and
// returns the analysis with a notice instead of matches.
func (uc *ResumeUsecase) ProcessUpload(ctx context.Context, userID, resumeText string) (*dto.ResumeAnalysis, error) {
	structured := uc.structure(ctx, resumeText)

	profile, err := uc.loadOrInit(userID)
	if err != nil {
		return nil, err
	}

	profile.Skills = resume.MergeSkills(profile.Skills, structured.Skills)
	profile.VectorSummary = resume.VectorSummary(structured)

	if err := uc.profiles.Upsert(profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	analysis := &dto.ResumeAnalysis{
		Structured: structured,
		Skills:     profile.Skills,
		Matches:    []dto.MatchResult{},
	}

	matches, err := uc.matcher.FindMatches(ctx, profile.VectorSummary, profile.Skills, uc.topK)
	if err != nil {
		if errors.Is(err, vectorindex.ErrUnavailable) || errors.Is(err, vectorindex.ErrNotFound) {
			uc.log.Warn("matching skipped, index unavailable", zap.Error(err))
			analysis.Notice = "Recommendations are warming up. Try again shortly."
			return analysis, nil
		}
		return nil, err
	}

	analysis.Matches = matches
	return analysis, nil
}

// Matches returns the stored profile's current recommendations. A user
// with no uploaded resume gets an empty list, not an error.
func (uc *ResumeUsecase) Matches(ctx context.Context, userID string, topK int) ([]dto.MatchResult, error) {
	if topK < 1 {
		topK = uc.topK
	}

	profile, err := uc.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.MatchResult{}, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile.VectorSummary == "" {
		return []dto.MatchResult{}, nil
	}

	return uc.matcher.FindMatches(ctx, profile.VectorSummary, profile.Skills, topK)
}

// UpdateSkills replaces the profile's skill list with the normalized
// input. This is the explicit user edit path; uploads only ever merge.
func (uc *ResumeUsecase) UpdateSkills(ctx context.Context, userID string, skills []string) (*model.CandidateProfile, error) {
	profile, err := uc.loadOrInit(userID)
	if err != nil {
		return nil, err
	}

	profile.Skills = resume.Normalize(skills)
	if err := uc.profiles.Upsert(profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// MatchForInternship reports the caller's score for one posting, if it
// appears in their current match list.
func (uc *ResumeUsecase) MatchForInternship(ctx context.Context, userID, internshipID string) (*dto.MatchResult, error) {
	matches, err := uc.Matches(ctx, userID, uc.topK)
	if err != nil {
		if errors.Is(err, vectorindex.ErrUnavailable) || errors.Is(err, vectorindex.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	for n := range matches {
		if matches[n].InternshipID == internshipID {
			return &matches[n], nil
		}
	}
	return nil, nil
}

func (uc *ResumeUsecase) structure(ctx context.Context, resumeText string) resume.Structured {
	output, err := uc.structurer.StructureResume(ctx, resumeText)
	if err != nil {
		uc.log.Warn("resume structuring failed, using fallback", zap.Error(err))
		return resume.Fallback(resumeText)
	}

	structured, ok := resume.ParseStructured(output, resumeText)
	if !ok {
		uc.log.Warn("resume structuring returned unparseable output, using fallback")
	}
	return structured
}

func (uc *ResumeUsecase) loadOrInit(userID string) (*model.CandidateProfile, error) {
	profile, err := uc.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.CandidateProfile{UserID: userID, Skills: []string{}}, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}
