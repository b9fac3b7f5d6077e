// Package vectorindex implements a flat, exact nearest-neighbor index
// over internship embeddings with file persistence. It is deliberately
// small: the catalog stays the source of truth for everything except the
// vectors themselves, and entries are never removed between rebuilds.
package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var (
	// ErrEmptyBuild is returned when a build is attempted with zero
	// entries. An index is never persisted without vectors.
	ErrEmptyBuild = errors.New("vector index: cannot build from an empty entry set")

	// ErrNotFound is returned by Load when no persisted index exists.
	// Callers must treat this as "run the rebuild pipeline first".
	ErrNotFound = errors.New("vector index: no persisted index found, run the rebuild pipeline first")

	// ErrUnavailable is returned by Query when the index is neither
	// loaded nor loadable. Recoverable: rebuild, then retry.
	ErrUnavailable = errors.New("vector index: index unavailable, run the rebuild pipeline and retry")
)

// Embedder converts texts into fixed-length vectors, one per input,
// order-preserving. A single query is a batch of size one.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Metadata travels with every vector. ID is the catalog key and is the
// only authoritative field; title and company are display hints that
// avoid a catalog round-trip but may be stale.
type Metadata struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// Entry is the unit of insertion: the text to embed plus its metadata.
type Entry struct {
	Text     string
	Metadata Metadata
}

// Neighbor is one query result. Distance is squared Euclidean in the
// embedding space; callers must not assume a bounded range.
type Neighbor struct {
	Metadata Metadata
	Distance float64
}

type record struct {
	Metadata Metadata  `json:"metadata"`
	Vector   []float32 `json:"vector"`
}

type indexFile struct {
	Dimension int      `json:"dimension"`
	Records   []record `json:"records"`
}

// Index is safe for concurrent use: queries share the read lock,
// Build/Add/Load serialize behind the write lock, and the first query on
// a cold process performs exactly one lazy load.
type Index struct {
	embedder Embedder
	path     string

	mu      sync.RWMutex
	dim     int
	records []record
	loaded  bool
}

func New(embedder Embedder, path string) *Index {
	return &Index{embedder: embedder, path: path}
}

// Build embeds all entries and replaces both the in-memory index and the
// persisted file. In-flight queries finish against the old state before
// the swap takes effect.
func (x *Index) Build(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyBuild
	}

	records, dim, err := x.embed(ctx, entries)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.records = records
	x.dim = dim
	x.loaded = true
	return x.persistLocked()
}

// Add embeds and appends entries without discarding existing vectors,
// then persists. The index must have been built or loaded first.
func (x *Index) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	records, dim, err := x.embed(ctx, entries)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.loaded {
		if err := x.loadLocked(); err != nil {
			return err
		}
	}
	if x.dim != 0 && dim != x.dim {
		return fmt.Errorf("vector index: dimension mismatch: index has %d, new vectors have %d", x.dim, dim)
	}

	x.records = append(x.records, records...)
	if x.dim == 0 {
		x.dim = dim
	}
	return x.persistLocked()
}

// Load restores index state from the persisted file.
func (x *Index) Load(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.loadLocked()
}

// Query returns up to k neighbors ordered by ascending distance. If the
// index is cold it attempts a single serialized load; failure surfaces
// as ErrUnavailable.
func (x *Index) Query(ctx context.Context, text string, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("vector index: k must be >= 1, got %d", k)
	}

	if err := x.ensureLoaded(); err != nil {
		return nil, err
	}

	vectors, err := x.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	query := vectors[0]

	x.mu.RLock()
	defer x.mu.RUnlock()

	neighbors := make([]Neighbor, 0, len(x.records))
	for _, rec := range x.records {
		neighbors = append(neighbors, Neighbor{
			Metadata: rec.Metadata,
			Distance: squaredL2(query, rec.Vector),
		})
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Distance < neighbors[b].Distance
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Len reports the number of indexed vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

func (x *Index) ensureLoaded() error {
	x.mu.RLock()
	loaded := x.loaded
	x.mu.RUnlock()
	if loaded {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.loaded {
		return nil
	}
	if err := x.loadLocked(); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

func (x *Index) embed(ctx context.Context, entries []Entry) ([]record, int, error) {
	texts := make([]string, len(entries))
	for n, entry := range entries {
		texts[n] = entry.Text
	}

	vectors, err := x.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, 0, fmt.Errorf("embed entries: %w", err)
	}
	if len(vectors) != len(entries) {
		return nil, 0, fmt.Errorf("vector index: embedder returned %d vectors for %d texts", len(vectors), len(entries))
	}

	dim := len(vectors[0])
	records := make([]record, len(entries))
	for n, entry := range entries {
		if len(vectors[n]) != dim {
			return nil, 0, fmt.Errorf("vector index: inconsistent vector dimension at entry %d", n)
		}
		records[n] = record{Metadata: entry.Metadata, Vector: vectors[n]}
	}
	return records, dim, nil
}

func (x *Index) loadLocked() error {
	raw, err := os.ReadFile(x.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w (path %s)", ErrNotFound, x.path)
		}
		return fmt.Errorf("read index file: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode index file: %w", err)
	}

	x.dim = file.Dimension
	x.records = file.Records
	x.loaded = true
	return nil
}

// persistLocked writes the index through a temp file and renames it into
// place, so a crashed write never leaves a torn index behind.
func (x *Index) persistLocked() error {
	raw, err := json.Marshal(indexFile{Dimension: x.dim, Records: x.records})
	if err != nil {
		return fmt.Errorf("encode index file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(x.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := x.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	if err := os.Rename(tmp, x.path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}

func squaredL2(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
