package service

import (
	"context"
	"strings"

	"prados-legal-be/internal/dto"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/rag/search"
	"prados-legal-be/pkg/rag/store"
)

const (
	maxKnowledgeTopK = 20
	excerptChars     = 300
)

type IKnowledgeService interface {
	Search(ctx context.Context, query string, topK int) (*dto.KnowledgeSearchResponse, error)
	Count(ctx context.Context) (*dto.KnowledgeCountResponse, error)
}

type knowledgeService struct {
	store       store.Store
	retriever   *search.Retriever
	defaultTopK int
}

func NewKnowledgeService(s store.Store, defaultTopK int) IKnowledgeService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &knowledgeService{
		store:       s,
		retriever:   search.NewRetriever(s),
		defaultTopK: defaultTopK,
	}
}

func (s *knowledgeService) Search(ctx context.Context, query string, topK int) (*dto.KnowledgeSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Input("El parámetro q es obligatorio")
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > maxKnowledgeTopK {
		topK = maxKnowledgeTopK
	}

	results, err := s.retriever.Search(ctx, query, topK)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnavailable, "La base de conocimientos no está disponible", err)
	}

	out := make([]dto.KnowledgeResult, 0, len(results))
	for _, r := range results {
		out = append(out, dto.KnowledgeResult{
			DocumentId: r.DocumentID,
			Title:      r.Title,
			Excerpt:    excerpt(r.Body, excerptChars),
			Score:      r.Score,
		})
	}
	return &dto.KnowledgeSearchResponse{Query: query, Results: out}, nil
}

func (s *knowledgeService) Count(ctx context.Context) (*dto.KnowledgeCountResponse, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnavailable, "La base de conocimientos no está disponible", err)
	}
	return &dto.KnowledgeCountResponse{Count: n}, nil
}

// excerpt collapses whitespace and cuts at limit characters on a word
// boundary when one is near.
func excerpt(body string, limit int) string {
	text := strings.Join(strings.Fields(body), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
