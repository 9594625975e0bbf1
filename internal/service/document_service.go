package service

import (
	"context"
	"encoding/json"
	"mime"
	"path/filepath"
	"strings"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/events"
)

// MaxStoredContentChars caps the text kept for an uploaded document.
const MaxStoredContentChars = 10000

var allowedUploadTypes = map[string]bool{
	"text/plain":         true,
	"text/markdown":      true,
	"application/json":   true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Only these are readable as text and fed to the knowledge base.
var ingestibleTypes = map[string]bool{
	"text/plain":       true,
	"text/markdown":    true,
	"application/json": true,
}

type IDocumentService interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	GetByUser(ctx context.Context, userId string) ([]*dto.UploadedDocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	events           events.Publisher
	maxUploadBytes   int
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	maxUploadBytes int,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		events:           eventPublisher,
		maxUploadBytes:   maxUploadBytes,
		logger:           log,
	}
}

func (s *documentService) Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	if s.maxUploadBytes > 0 && len(req.Data) > s.maxUploadBytes {
		return nil, apperror.TooLarge("El archivo supera el tamaño máximo permitido")
	}

	contentType := ResolveContentType(req.ContentType, req.Filename)
	if !allowedUploadTypes[contentType] {
		return nil, apperror.UnsupportedMedia("Tipo de archivo no soportado: " + contentType)
	}

	doc := &entity.UploadedDocument{
		UserId:      req.UserId,
		Filename:    filepath.Base(req.Filename),
		ContentType: contentType,
		Size:        int64(len(req.Data)),
		Content:     ExtractText(req.Data, MaxStoredContentChars),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UploadedDocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	if ingestibleTypes[contentType] {
		payload, err := json.Marshal(dto.IngestUploadMessage{DocumentId: doc.Id})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Error("DOCUMENT", "Failed to queue ingestion", map[string]interface{}{"document_id": doc.Id, "error": err.Error()})
		}
	}

	if err := s.events.Publish(ctx, events.DocumentUploaded(doc.Id.String(), doc.UserId, doc.Filename, doc.Size)); err != nil {
		s.logger.Warn("DOCUMENT", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.UploadDocumentResponse{
		Success:    true,
		DocumentId: doc.Id,
		Filename:   doc.Filename,
	}, nil
}

func (s *documentService) GetByUser(ctx context.Context, userId string) ([]*dto.UploadedDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.UploadedDocumentRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
		specification.Pagination{Limit: 100},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UploadedDocumentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, &dto.UploadedDocumentResponse{
			Id:          d.Id,
			UserId:      d.UserId,
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Size:        d.Size,
			UploadedAt:  d.UploadedAt,
		})
	}
	return result, nil
}

// ResolveContentType normalizes the declared media type, falling back to the
// file extension when the client sent none or a generic one.
func ResolveContentType(declared, filename string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return strings.ToLower(mt)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".md" || ext == ".markdown" {
		return "text/markdown"
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return "application/octet-stream"
}

// ExtractText decodes data as UTF-8, dropping invalid sequences and NUL
// bytes, and keeps at most limit characters.
func ExtractText(data []byte, limit int) string {
	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\x00", "")
	if limit > 0 {
		runes := []rune(text)
		if len(runes) > limit {
			text = string(runes[:limit])
		}
	}
	return text
}
