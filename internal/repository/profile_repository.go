package repository

import (
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db}
}

func (r *ProfileRepository) FindByUserID(userID string) (*model.CandidateProfile, error) {
	var profile model.CandidateProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert inserts or updates the profile keyed by user_id, so repeated
// uploads for the same user land on one row.
func (r *ProfileRepository) Upsert(profile *model.CandidateProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"skills", "vector_summary", "updated_at"}),
	}).Create(profile).Error
}

func (r *ProfileRepository) Update(profile *model.CandidateProfile) error {
	return r.db.Save(profile).Error
}
