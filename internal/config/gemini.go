package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v9"
)

type GeminiConfig struct {
	APIKey         string `env:"GEMINI_API_KEY"`
	GenerateModel  string `env:"GEMINI_GENERATE_MODEL" envDefault:"gemini-2.5-flash-lite"`
	EmbeddingModel string `env:"GEMINI_EMBEDDING_MODEL" envDefault:"gemini-embedding-001"`
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{}
		if err := env.Parse(geminiConfig); err != nil {
			log.Fatalf("parse gemini config: %v", err)
		}
	})
	return geminiConfig
}
