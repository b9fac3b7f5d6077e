package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v9"
)

// IndexConfig controls where the vector index lives and which search
// backend serves nearest-neighbor queries. "file" keeps a flat index on
// disk; "pgvector" searches the embedding column in Postgres.
type IndexConfig struct {
	Path     string `env:"INDEX_PATH" envDefault:"vector_db/index.json"`
	Backend  string `env:"INDEX_BACKEND" envDefault:"file"`
	TopK     int    `env:"MATCH_TOP_K" envDefault:"10"`
	FetchK   int    `env:"MATCH_FETCH_K" envDefault:"0"` // 0 means fetch exactly TopK
	Provider string `env:"RESUME_LLM_PROVIDER" envDefault:"gemini"`
}

var (
	indexConfig *IndexConfig
	indexOnce   sync.Once
)

func LoadIndexConfig() *IndexConfig {
	indexOnce.Do(func() {
		indexConfig = &IndexConfig{}
		if err := env.Parse(indexConfig); err != nil {
			log.Fatalf("parse index config: %v", err)
		}
	})
	return indexConfig
}
