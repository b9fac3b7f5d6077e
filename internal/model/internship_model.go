package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type Internship struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255)" json:"title"`
	Company     string         `gorm:"type:varchar(255);default:'Unknown Company'" json:"company"`
	Description string         `gorm:"type:text" json:"description"`
	// Normalized skill tokens; the catalog stays the source of truth for
	// skill overlap even after the posting is indexed.
	SkillsRequired pq.StringArray `gorm:"type:text[]" json:"skills_required"`
	Location       string         `gorm:"type:varchar(255)" json:"location"`
	Duration       string         `gorm:"type:varchar(100)" json:"duration"`
	Stipend        string         `gorm:"type:varchar(100)" json:"stipend"`
	JobType        string         `gorm:"type:varchar(20);default:'on-site'" json:"job_type"` // remote, on-site, hybrid

	// Populated on index rebuild; only read by the pgvector search backend.
	Embedding pgvector.Vector `gorm:"type:vector(3072)" json:"-"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Internship) TableName() string {
	return "internships"
}

// Document renders the posting as the text that gets embedded. Kept
// deterministic so a rebuild embeds the same bytes for unchanged rows.
func (i *Internship) Document() string {
	return fmt.Sprintf(
		"Title: %s\nCompany: %s\nDescription: %s\nSkills: %s\nLocation: %s\nJob Type: %s\nDuration: %s\nStipend: %s",
		i.Title, i.Company, i.Description,
		strings.Join(i.SkillsRequired, ", "),
		i.Location, i.JobType, i.Duration, i.Stipend,
	)
}
