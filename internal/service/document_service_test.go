package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"prados-legal-be/internal/dto"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		filename string
		want     string
	}{
		{"declared wins", "text/plain; charset=utf-8", "notas.bin", "text/plain"},
		{"markdown by extension", "", "README.md", "text/markdown"},
		{"octet-stream falls back", "application/octet-stream", "contrato.pdf", "application/pdf"},
		{"json by extension", "", "datos.json", "application/json"},
		{"unknown", "", "archivo", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveContentType(tt.declared, tt.filename))
		})
	}
}

func TestExtractText(t *testing.T) {
	assert.Equal(t, "hola", ExtractText([]byte("ho\x00la"), 0))
	assert.Equal(t, "ab", ExtractText([]byte{'a', 0xff, 'b'}, 0))
	assert.Equal(t, "añ", ExtractText([]byte("año"), 2))
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	queue := &recordingQueue{}
	pub := &recordingPublisher{}
	svc := NewDocumentService(factory, queue, pub, 1024, nopLog())

	res, err := svc.Upload(ctx, &dto.UploadDocumentRequest{
		UserId:      "u1",
		Filename:    "reglamento.txt",
		ContentType: "text/plain",
		Data:        []byte("Reglamento interno del proyecto."),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "reglamento.txt", res.Filename)

	require.Len(t, queue.payloads, 1)
	var msg dto.IngestUploadMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &msg))
	assert.Equal(t, res.DocumentId, msg.DocumentId)
	assert.Equal(t, []string{events.TypeDocumentUploaded}, pub.types())

	docs, err := svc.GetByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(len("Reglamento interno del proyecto.")), docs[0].Size)
	assert.Equal(t, "text/plain", docs[0].ContentType)
}

func TestDocumentService_BinaryUploadIsNotIngested(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewDocumentService(newTestFactory(t), queue, events.Nop, 1024, nopLog())

	_, err := svc.Upload(context.Background(), &dto.UploadDocumentRequest{
		UserId:   "u1",
		Filename: "plano.pdf",
		Data:     []byte("%PDF-1.4 ..."),
	})
	require.NoError(t, err)
	assert.Empty(t, queue.payloads)
}

func TestDocumentService_UploadRejected(t *testing.T) {
	svc := NewDocumentService(newTestFactory(t), &recordingQueue{}, events.Nop, 16, nopLog())

	tests := []struct {
		name string
		req  *dto.UploadDocumentRequest
		want apperror.Kind
	}{
		{"too large", &dto.UploadDocumentRequest{UserId: "u1", Filename: "a.txt", Data: []byte(strings.Repeat("x", 17))}, apperror.KindTooLarge},
		{"unsupported", &dto.UploadDocumentRequest{UserId: "u1", Filename: "foto.png", ContentType: "image/png", Data: []byte("png")}, apperror.KindUnsupportedMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.req)
			assert.Equal(t, tt.want, kindOf(err))
		})
	}
}
