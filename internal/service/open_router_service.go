package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/config"
	"github.com/tidwall/gjson"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterService is the alternate resume-structuring backend, selected
// by RESUME_LLM_PROVIDER=openrouter. Same contract as GeminiService:
// raw resume text in, model JSON out, parsed by the caller.
type OpenRouterService struct {
	APIKey string
	Model  string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	return &OpenRouterService{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		client: resty.New(),
	}
}

func (s *OpenRouterService) StructureResume(ctx context.Context, resumeText string) (string, error) {
	if s.APIKey == "" {
		return "", fmt.Errorf("OPENROUTER_API_KEY not set")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": s.Model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an expert resume parser returning strict JSON."},
				{"role": "user", "content": extractionPrompt(resumeText)},
			},
		}).
		Post(openRouterURL)
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM (status %d)", resp.StatusCode())
	}
	return text, nil
}
