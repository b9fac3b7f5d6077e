package usecase

import (
	"errors"
	"fmt"
	"math"

	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/repository"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/response"
	"gorm.io/gorm"
)

// ErrInternshipNotFound covers both missing and inactive postings; users
// never see inactive rows.
var ErrInternshipNotFound = errors.New("internship not found")

const defaultPageSize = 20

// CatalogUsecase serves the browsing surface: filtered, paginated active
// listings and single-posting detail.
type CatalogUsecase struct {
	internships *repository.InternshipRepository
}

func NewCatalogUsecase(internships *repository.InternshipRepository) *CatalogUsecase {
	return &CatalogUsecase{internships: internships}
}

type CatalogPage struct {
	Internships []model.Internship
	Pagination  *response.Pagination
	Cities      []string
}

func (uc *CatalogUsecase) List(query, location string, page, pageSize int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	internships, total, err := uc.internships.SearchActive(query, location, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("search internships: %w", err)
	}

	cities, err := uc.internships.ActiveLocations()
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	totalPages := int64(math.Ceil(float64(total) / float64(pageSize)))
	from, to := (page-1)*pageSize+1, (page-1)*pageSize+len(internships)
	if len(internships) == 0 {
		from = 0
	}

	return &CatalogPage{
		Internships: internships,
		Cities:      cities,
		Pagination: &response.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
			HasMore:    int64(page) < totalPages,
			From:       from,
			To:         to,
		},
	}, nil
}

func (uc *CatalogUsecase) Detail(id string) (*model.Internship, error) {
	internship, err := uc.internships.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInternshipNotFound
		}
		return nil, fmt.Errorf("find internship: %w", err)
	}
	if !internship.IsActive {
		return nil, ErrInternshipNotFound
	}
	return internship, nil
}
