package response

import (
	"context"
	"errors"
	"strings"
	"time"

	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/llm"
)

type Config struct {
	MaxTokens    int
	MaxSentences int
	// Timeout bounds the completion call; zero leaves the provider default.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:    160,
		MaxSentences: DefaultMaxSentences,
		Timeout:      60 * time.Second,
	}
}

// Shaper calls the completion backend once and enforces the response shape.
type Shaper struct {
	provider llm.LLMProvider
	cfg      Config
}

func NewShaper(provider llm.LLMProvider, cfg Config) *Shaper {
	return &Shaper{provider: provider, cfg: cfg}
}

// SystemPrompt joins the persona with the information section.
func SystemPrompt(persona, contextText string) string {
	return persona + "\nINFORMACIÓN DISPONIBLE:\n" + contextText
}

func (s *Shaper) Generate(ctx context.Context, query, contextText, persona string) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	raw, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt(persona, contextText)},
		{Role: llm.RoleUser, Content: query},
	}, llm.WithMaxTokens(s.cfg.MaxTokens))
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			return "", apperror.RateLimited(err)
		case errors.Is(err, context.DeadlineExceeded):
			return "", apperror.Timeout("El modelo de lenguaje", err)
		default:
			return "", apperror.Generation(err)
		}
	}

	return Truncate(strings.TrimSpace(raw), s.cfg.MaxSentences), nil
}
