package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v9"
)

type OpenRouterConfig struct {
	APIKey string `env:"OPENROUTER_API_KEY"`
	Model  string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o-mini"`
}

var (
	openRouterConfig *OpenRouterConfig
	openRouterOnce   sync.Once
)

func LoadOpenRouterConfig() *OpenRouterConfig {
	openRouterOnce.Do(func() {
		openRouterConfig = &OpenRouterConfig{}
		if err := env.Parse(openRouterConfig); err != nil {
			log.Fatalf("parse openrouter config: %v", err)
		}
	})
	return openRouterConfig
}
