package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/dto"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/resume"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"go.uber.org/zap"
)

const (
	skillWeight = 0.8
	faissWeight = 0.2
)

// VectorSearcher is the query side of the index, satisfied by both the
// file-backed index and the pgvector backend.
type VectorSearcher interface {
	Query(ctx context.Context, text string, k int) ([]vectorindex.Neighbor, error)
}

// IndexWriter is the lifecycle side: full rebuild and incremental append.
type IndexWriter interface {
	Build(ctx context.Context, entries []vectorindex.Entry) error
	Add(ctx context.Context, entries []vectorindex.Entry) error
}

// Catalog is the authoritative internship store.
type Catalog interface {
	FindByID(id string) (*model.Internship, error)
	ListActive() ([]model.Internship, error)
}

// MatchUsecase combines embedding similarity with explicit skill overlap
// into a ranked recommendation list.
type MatchUsecase struct {
	searcher VectorSearcher
	writer   IndexWriter
	catalog  Catalog
	log      *zap.Logger

	// fetchK widens the neighbor pool beyond topK when > topK. Default
	// behavior fetches exactly topK, so a high-skill-overlap posting
	// outside the vector neighbors never surfaces; widening is opt-in.
	fetchK int
}

func NewMatchUsecase(searcher VectorSearcher, writer IndexWriter, catalog Catalog, fetchK int, log *zap.Logger) *MatchUsecase {
	return &MatchUsecase{searcher: searcher, writer: writer, catalog: catalog, fetchK: fetchK, log: log}
}

// FindMatches queries the vector index for neighbors of querySummary,
// joins them with live catalog data, scores and ranks.
//
// final = 0.8*skill_score + 0.2*faiss_score: exact skill match is a much
// stronger signal than embedding proximity of free-text descriptions.
// Ties keep ascending-distance traversal order (stable sort).
func (uc *MatchUsecase) FindMatches(ctx context.Context, querySummary string, candidateSkills []string, topK int) ([]dto.MatchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", topK)
	}

	fetchK := topK
	if uc.fetchK > topK {
		fetchK = uc.fetchK
	}

	neighbors, err := uc.searcher.Query(ctx, querySummary, fetchK)
	if err != nil {
		return nil, err
	}

	candidateSet := make(map[string]bool)
	for _, skill := range resume.Normalize(candidateSkills) {
		candidateSet[skill] = true
	}

	matches := make([]dto.MatchResult, 0, len(neighbors))
	for _, neighbor := range neighbors {
		id := neighbor.Metadata.ID
		if id == "" {
			uc.log.Warn("index entry without catalog id, skipping")
			continue
		}

		internship, err := uc.catalog.FindByID(id)
		if err != nil {
			// Stale entry: the catalog moved on, the index did not.
			uc.log.Warn("catalog lookup failed for indexed entry, skipping",
				zap.String("internship_id", id), zap.Error(err))
			continue
		}
		if !internship.IsActive {
			continue
		}

		required := resume.Normalize(internship.SkillsRequired)
		matching, nonMatching := partitionSkills(required, candidateSet)

		skillScore := 0.0
		if len(required) > 0 {
			skillScore = float64(len(matching)) / float64(len(required))
		}

		faissScore := similarity(neighbor.Distance)
		finalScore := skillWeight*skillScore + faissWeight*faissScore

		matches = append(matches, dto.MatchResult{
			InternshipID:        id,
			Title:               internship.Title,
			Company:             internship.Company,
			FaissScore:          round4(faissScore),
			SkillScore:          round4(skillScore),
			FinalScore:          round4(finalScore),
			MatchPercentage:     round2(finalScore * 100),
			MatchingSkills:      matching,
			NonMatchingSkills:   nonMatching,
			MatchingSkillsCount: len(matching),
			TotalSkillsCount:    len(required),
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].FinalScore > matches[b].FinalScore
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// BuildIndex rebuilds the index from every active posting, replacing the
// persisted state entirely. The offline import process calls this after a
// bulk load.
func (uc *MatchUsecase) BuildIndex(ctx context.Context) (int, error) {
	internships, err := uc.catalog.ListActive()
	if err != nil {
		return 0, fmt.Errorf("list active internships: %w", err)
	}
	if len(internships) == 0 {
		return 0, vectorindex.ErrEmptyBuild
	}

	entries := indexEntries(internships)
	if err := uc.writer.Build(ctx, entries); err != nil {
		return 0, err
	}

	uc.log.Info("vector index rebuilt", zap.Int("entries", len(entries)))
	return len(entries), nil
}

// AddInternships appends new postings to the index without a rebuild.
func (uc *MatchUsecase) AddInternships(ctx context.Context, internships []model.Internship) error {
	if len(internships) == 0 {
		return nil
	}
	return uc.writer.Add(ctx, indexEntries(internships))
}

func indexEntries(internships []model.Internship) []vectorindex.Entry {
	entries := make([]vectorindex.Entry, len(internships))
	for n := range internships {
		internship := &internships[n]
		entries[n] = vectorindex.Entry{
			Text: internship.Document(),
			Metadata: vectorindex.Metadata{
				ID:      internship.ID.String(),
				Title:   internship.Title,
				Company: internship.Company,
			},
		}
	}
	return entries
}

// similarity maps a raw distance into (0,1]: distance 0 is a perfect 1,
// growing distance decays toward (but never reaches) 0.
func similarity(distance float64) float64 {
	return 1 / (1 + distance)
}

// partitionSkills splits the posting's required skills into those present
// in the candidate's set and those absent, preserving the posting's order.
func partitionSkills(required []string, candidate map[string]bool) (matching, nonMatching []string) {
	matching = make([]string, 0, len(required))
	nonMatching = make([]string, 0, len(required))
	for _, skill := range required {
		if candidate[skill] {
			matching = append(matching, skill)
		} else {
			nonMatching = append(nonMatching, skill)
		}
	}
	return matching, nonMatching
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
