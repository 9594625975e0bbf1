package factory

import (
	"context"
	"fmt"

	"prados-legal-be/pkg/llm"
	"prados-legal-be/pkg/llm/anthropic"
	"prados-legal-be/pkg/llm/gemini"
	"prados-legal-be/pkg/llm/ollama"
	"prados-legal-be/pkg/llm/openai"
)

type Config struct {
	// Forced skips precedence and requires this backend.
	Forced string
	// Model overrides the backend's default model.
	Model string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaBaseURL   string
}

func (c Config) credential(k llm.Kind) string {
	switch k {
	case llm.KindGemini:
		return c.GeminiAPIKey
	case llm.KindOpenAI:
		return c.OpenAIAPIKey
	case llm.KindAnthropic:
		return c.AnthropicAPIKey
	case llm.KindOllama:
		return c.OllamaBaseURL
	}
	return ""
}

// Select picks the backend once: the forced one when set, otherwise the
// first configured backend in llm.Precedence.
func Select(cfg Config) (llm.Profile, error) {
	if cfg.Forced != "" {
		kind, err := llm.ParseKind(cfg.Forced)
		if err != nil {
			return llm.Profile{}, err
		}
		if cfg.credential(kind) == "" {
			return llm.Profile{}, fmt.Errorf("LLM provider %s is forced but not configured", kind)
		}
		return llm.ProfileOf(kind), nil
	}

	for _, kind := range llm.Precedence {
		if cfg.credential(kind) != "" {
			return llm.ProfileOf(kind), nil
		}
	}
	return llm.Profile{}, fmt.Errorf("no LLM provider configured")
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, llm.Profile, error) {
	profile, err := Select(cfg)
	if err != nil {
		return nil, llm.Profile{}, err
	}

	model := profile.DefaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	switch profile.Kind {
	case llm.KindGemini:
		p, err := gemini.NewGeminiProvider(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, profile, err
		}
		return p, profile, nil
	case llm.KindOpenAI:
		return openai.NewOpenAIProvider(cfg.OpenAIAPIKey, model), profile, nil
	case llm.KindAnthropic:
		return anthropic.NewAnthropicProvider(cfg.AnthropicAPIKey, model), profile, nil
	case llm.KindOllama:
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, model), profile, nil
	default:
		return nil, profile, fmt.Errorf("unsupported LLM provider: %s", profile.Kind)
	}
}
