package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// InternshipRepository is the catalog: the authoritative store for posting
// attributes, live skill lists and active status.
type InternshipRepository struct {
	db *gorm.DB
}

func NewInternshipRepository(db *gorm.DB) *InternshipRepository {
	return &InternshipRepository{db}
}

func (r *InternshipRepository) FindByID(id string) (*model.Internship, error) {
	var internship model.Internship
	err := r.db.First(&internship, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &internship, nil
}

// ListActive returns every active posting, the rebuild pipeline's input.
func (r *InternshipRepository) ListActive() ([]model.Internship, error) {
	var internships []model.Internship
	err := r.db.Where("is_active = ?", true).Order("id").Find(&internships).Error
	return internships, err
}

// SearchActive filters active postings by free-text query and location and
// returns one page plus the total count.
func (r *InternshipRepository) SearchActive(query, location string, page, pageSize int) ([]model.Internship, int64, error) {
	tx := r.db.Model(&model.Internship{}).Where("is_active = ?", true)

	if query = strings.TrimSpace(query); query != "" {
		like := "%" + query + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ? OR company ILIKE ?", like, like, like)
	}
	if location = strings.TrimSpace(location); location != "" {
		tx = tx.Where("location ILIKE ?", "%"+location+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var internships []model.Internship
	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&internships).Error
	return internships, total, err
}

// ActiveLocations returns the distinct city tokens of active postings,
// split on commas, for the location filter dropdown.
func (r *InternshipRepository) ActiveLocations() ([]string, error) {
	var locations []string
	err := r.db.Model(&model.Internship{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("location", &locations).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var cities []string
	for _, loc := range locations {
		for _, city := range strings.Split(loc, ",") {
			city = strings.TrimSpace(city)
			if city == "" || seen[city] {
				continue
			}
			seen[city] = true
			cities = append(cities, city)
		}
	}
	return cities, nil
}

func (r *InternshipRepository) Create(internship *model.Internship) error {
	return r.db.Create(internship).Error
}

func (r *InternshipRepository) Update(internship *model.Internship) error {
	return r.db.Save(internship).Error
}

// SetEmbedding writes only the embedding column; used by the pgvector
// index backend during rebuilds.
func (r *InternshipRepository) SetEmbedding(id uuid.UUID, embedding pgvector.Vector) error {
	return r.db.Model(&model.Internship{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

// InternshipNeighbor is the scan target for the raw KNN query.
type InternshipNeighbor struct {
	ID       uuid.UUID `gorm:"column:id"`
	Title    string    `gorm:"column:title"`
	Company  string    `gorm:"column:company"`
	Distance float64   `gorm:"column:distance"`
}

// NearestByEmbedding runs the pgvector `<->` KNN search over postings that
// have an embedding, ascending by distance.
func (r *InternshipRepository) NearestByEmbedding(embedding pgvector.Vector, topK int) ([]InternshipNeighbor, error) {
	var neighbors []InternshipNeighbor
	err := r.db.Raw(`
        SELECT id, title, company, embedding <-> ? AS distance
        FROM internships
        WHERE embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&neighbors).Error
	return neighbors, err
}
