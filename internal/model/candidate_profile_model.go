package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CandidateProfile is the persistent resume-derived state for one user.
// Skills only ever grow through upload merges; VectorSummary is replaced
// wholesale on every upload.
type CandidateProfile struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        string         `gorm:"type:varchar(255);uniqueIndex" json:"user_id"`
	Skills        pq.StringArray `gorm:"type:text[]" json:"skills"`
	VectorSummary string         `gorm:"type:text" json:"vector_summary"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *CandidateProfile) TableName() string {
	return "candidate_profiles"
}
