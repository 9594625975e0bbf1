package service

import (
	"context"
	"strings"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/apperror"

	"github.com/google/uuid"
)

const (
	searchMessageLimit  = 50
	recentActivityLimit = 10
)

type ISearchService interface {
	Search(ctx context.Context, query, userId string) (*dto.SearchResponse, error)
	Overview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSearchService(uowFactory unitofwork.RepositoryFactory) ISearchService {
	return &searchService{uowFactory: uowFactory}
}

// Search finds conversations with at least one message containing query.
func (s *searchService) Search(ctx context.Context, query, userId string) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Input("El parámetro q es obligatorio")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ContentContains{Query: query},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: searchMessageLimit},
	)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(messages))
	ids := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		if !seen[m.ConversationId] {
			seen[m.ConversationId] = true
			ids = append(ids, m.ConversationId)
		}
	}

	res := &dto.SearchResponse{
		Conversations:  []*dto.ConversationResponse{},
		MessageMatches: len(messages),
	}
	if len(ids) == 0 {
		return res, nil
	}

	specs := []specification.Specification{
		specification.ByIDs{IDs: ids},
		specification.OrderBy{Field: "updated_at", Desc: true},
	}
	if userId != "" {
		specs = append(specs, specification.ByUserID{UserID: userId})
	}
	convs, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	res.Conversations = toConversationResponses(convs)
	return res, nil
}

func (s *searchService) Overview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	res := &dto.AnalyticsOverviewResponse{}
	var err error

	if res.TotalUsers, err = uow.UserRepository().Count(ctx); err != nil {
		return nil, err
	}
	if res.TotalConversations, err = uow.ConversationRepository().Count(ctx); err != nil {
		return nil, err
	}
	if res.TotalMessages, err = uow.MessageRepository().Count(ctx); err != nil {
		return nil, err
	}
	if res.TotalDocuments, err = uow.UploadedDocumentRepository().Count(ctx); err != nil {
		return nil, err
	}
	if res.TotalKnowledge, err = uow.KnowledgeDocumentRepository().Count(ctx); err != nil {
		return nil, err
	}

	recent, err := uow.ConversationRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: recentActivityLimit},
	)
	if err != nil {
		return nil, err
	}
	res.RecentActivity = toConversationResponses(recent)
	return res, nil
}
