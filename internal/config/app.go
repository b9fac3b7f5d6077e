package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v9"
)

type AppConfig struct {
	Name    string `env:"APP_NAME" envDefault:"internship-recommender"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"APP_PORT" envDefault:":8080"`
	BaseURL string `env:"APP_URL"`
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = &AppConfig{}
		if err := env.Parse(appConfig); err != nil {
			log.Fatalf("parse app config: %v", err)
		}
	})
	return appConfig
}
