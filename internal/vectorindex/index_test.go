package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

// fakeEmbedder maps known texts to fixed vectors so orderings are
// deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for n, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no fixture vector for %q", text)
		}
		out[n] = vec
	}
	return out, nil
}

func newFixtureEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"backend internship":  {1, 0, 0},
		"frontend internship": {0, 1, 0},
		"data internship":     {0, 0, 1},
		"backend query":       {0.9, 0.1, 0},
	}}
}

func fixtureEntries() []Entry {
	return []Entry{
		{Text: "backend internship", Metadata: Metadata{ID: "a", Title: "Backend Intern"}},
		{Text: "frontend internship", Metadata: Metadata{ID: "b", Title: "Frontend Intern"}},
		{Text: "data internship", Metadata: Metadata{ID: "c", Title: "Data Intern"}},
	}
}

func TestBuildEmptyFails(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))

	if err := idx.Build(context.Background(), nil); !errors.Is(err, ErrEmptyBuild) {
		t.Fatalf("expected ErrEmptyBuild, got %v", err)
	}
}

func TestLoadWithoutBuildFails(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))

	if err := idx.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQueryBeforeBuildUnavailable(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))

	if _, err := idx.Query(context.Background(), "backend query", 3); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestQueryOrdering(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))

	if err := idx.Build(context.Background(), fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	neighbors, err := idx.Query(context.Background(), "backend query", 3)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(neighbors) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].Metadata.ID != "a" {
		t.Fatalf("expected nearest neighbor a, got %s", neighbors[0].Metadata.ID)
	}
	for n := 1; n < len(neighbors); n++ {
		if neighbors[n].Distance < neighbors[n-1].Distance {
			t.Fatalf("distances not ascending: %v", neighbors)
		}
	}
}

func TestQueryRespectsK(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))

	if err := idx.Build(context.Background(), fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	neighbors, err := idx.Query(context.Background(), "backend query", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}

	if _, err := idx.Query(context.Background(), "backend query", 0); err == nil {
		t.Fatal("expected error for k=0")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	built := New(newFixtureEmbedder(), path)
	if err := built.Build(ctx, fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}
	before, err := built.Query(ctx, "backend query", 3)
	if err != nil {
		t.Fatalf("query before reload: %v", err)
	}

	// Fresh index against the same file, as a new process would see it.
	reloaded := New(newFixtureEmbedder(), path)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if reloaded.Len() != 3 {
		t.Fatalf("expected 3 vectors after load, got %d", reloaded.Len())
	}

	after, err := reloaded.Query(ctx, "backend query", 3)
	if err != nil {
		t.Fatalf("query after reload: %v", err)
	}

	for n := range before {
		if before[n].Metadata.ID != after[n].Metadata.ID {
			t.Fatalf("ordering changed after reload: %v vs %v", before, after)
		}
		if before[n].Distance != after[n].Distance {
			t.Fatalf("distance changed after reload: %v vs %v", before, after)
		}
	}
}

func TestLazyLoadOnQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	built := New(newFixtureEmbedder(), path)
	if err := built.Build(ctx, fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	// Cold index: the first Query loads from disk without an explicit Load.
	cold := New(newFixtureEmbedder(), path)
	neighbors, err := cold.Query(ctx, "backend query", 1)
	if err != nil {
		t.Fatalf("query on cold index: %v", err)
	}
	if neighbors[0].Metadata.ID != "a" {
		t.Fatalf("expected a, got %s", neighbors[0].Metadata.ID)
	}
}

func TestAddAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	embedder := newFixtureEmbedder()
	embedder.vectors["ml internship"] = []float32{0.95, 0, 0.05}

	idx := New(embedder, path)
	if err := idx.Build(ctx, fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	err := idx.Add(ctx, []Entry{{Text: "ml internship", Metadata: Metadata{ID: "d"}}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if idx.Len() != 4 {
		t.Fatalf("expected 4 vectors, got %d", idx.Len())
	}

	// The appended entry persists across a reload.
	reloaded := New(embedder, path)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if reloaded.Len() != 4 {
		t.Fatalf("expected 4 vectors after reload, got %d", reloaded.Len())
	}

	neighbors, err := reloaded.Query(ctx, "backend query", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if neighbors[0].Metadata.ID != "d" {
		t.Fatalf("expected appended entry to win, got %s", neighbors[0].Metadata.ID)
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	embedder := newFixtureEmbedder()
	embedder.vectors["wide"] = []float32{1, 2, 3, 4}

	idx := New(embedder, filepath.Join(t.TempDir(), "index.json"))
	if err := idx.Build(context.Background(), fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	err := idx.Add(context.Background(), []Entry{{Text: "wide", Metadata: Metadata{ID: "w"}}})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestConcurrentQueries(t *testing.T) {
	idx := New(newFixtureEmbedder(), filepath.Join(t.TempDir(), "index.json"))
	if err := idx.Build(context.Background(), fixtureEntries()); err != nil {
		t.Fatalf("build: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := idx.Query(context.Background(), "backend query", 2); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent query: %v", err)
	}
}
