package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"github.com/pgvector/pgvector-go"
)

// PgvectorIndex serves the same build/add/query surface as the file-backed
// index, storing vectors in the internships.embedding column instead of on
// disk. Postgres owns durability and concurrent access here.
type PgvectorIndex struct {
	repo     *InternshipRepository
	embedder vectorindex.Embedder
}

func NewPgvectorIndex(repo *InternshipRepository, embedder vectorindex.Embedder) *PgvectorIndex {
	return &PgvectorIndex{repo: repo, embedder: embedder}
}

// Build embeds every entry and writes the vectors to the catalog rows.
func (x *PgvectorIndex) Build(ctx context.Context, entries []vectorindex.Entry) error {
	if len(entries) == 0 {
		return vectorindex.ErrEmptyBuild
	}
	return x.Add(ctx, entries)
}

// Add embeds and stores entries; rows that already carry a vector are
// simply overwritten, which makes rebuild and append the same write path.
func (x *PgvectorIndex) Add(ctx context.Context, entries []vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for n, entry := range entries {
		texts[n] = entry.Text
	}

	vectors, err := x.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed entries: %w", err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(entries))
	}

	for n, entry := range entries {
		id, err := uuid.Parse(entry.Metadata.ID)
		if err != nil {
			return fmt.Errorf("entry %d has invalid catalog id %q: %w", n, entry.Metadata.ID, err)
		}
		if err := x.repo.SetEmbedding(id, pgvector.NewVector(vectors[n])); err != nil {
			return fmt.Errorf("store embedding for %s: %w", entry.Metadata.ID, err)
		}
	}
	return nil
}

// Query embeds the text and runs the `<->` KNN search. Zero stored
// vectors means the rebuild pipeline has not run yet.
func (x *PgvectorIndex) Query(ctx context.Context, text string, k int) ([]vectorindex.Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("pgvector index: k must be >= 1, got %d", k)
	}

	vectors, err := x.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := x.repo.NearestByEmbedding(pgvector.NewVector(vectors[0]), k)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	if len(rows) == 0 {
		return nil, vectorindex.ErrUnavailable
	}

	neighbors := make([]vectorindex.Neighbor, len(rows))
	for n, row := range rows {
		neighbors[n] = vectorindex.Neighbor{
			Metadata: vectorindex.Metadata{
				ID:      row.ID.String(),
				Title:   row.Title,
				Company: row.Company,
			},
			Distance: row.Distance,
		}
	}
	return neighbors, nil
}
