package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prados-legal-be/internal/model"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/pkg/serverutils"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/internal/service"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/database"
	"prados-legal-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	reply string
	hooks []pipeline.TurnHook
}

func (s *stubRunner) Run(ctx context.Context, in pipeline.TurnInput) (*pipeline.TurnResult, error) {
	if in.ConversationID == "" {
		in.ConversationID = uuid.NewString()
	}
	res := &pipeline.TurnResult{ConversationID: in.ConversationID, UserText: strings.TrimSpace(in.Text), ResponseText: s.reply}
	for _, h := range s.hooks {
		if err := h(ctx, in, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type testApp struct {
	app     *fiber.App
	factory unitofwork.RepositoryFactory
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.NewGormDBFromDSN("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	log := logger.NewNopLogger()
	factory := unitofwork.NewRepositoryFactory(db)
	recorder := service.NewTurnRecorder(factory, nil, events.Nop, log)
	runner := &stubRunner{reply: "Respuesta de Valeria.", hooks: []pipeline.TurnHook{recorder.Hook()}}

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := app.Group("/api")
	NewRootController().RegisterRoutes(api)
	NewUserController(service.NewUserService(factory)).RegisterRoutes(api)
	NewConversationController(service.NewConversationService(factory)).RegisterRoutes(api)
	NewMessageController(service.NewMessageService(factory, runner)).RegisterRoutes(api)
	NewSearchController(service.NewSearchService(factory)).RegisterRoutes(api)
	NewVoiceController(service.NewVoiceService(runner, nil, 0, log)).RegisterRoutes(api)
	NewDocumentController(service.NewDocumentService(factory, nopQueue{}, events.Nop, 1024, log)).RegisterRoutes(api)

	return &testApp{app: app, factory: factory}
}

type nopQueue struct{}

func (nopQueue) Publish(context.Context, []byte) error { return nil }

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(t, req)
}

func (a *testApp) send(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestRootBanner(t *testing.T) {
	a := newTestApp(t)
	resp, body := a.do(t, "GET", "/api/", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Prados de Paraíso Legal Hub API", body["message"])
}

func TestUserController(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, "POST", "/api/users", map[string]string{"email": "ana@prados.pe", "name": "Ana"})
	require.Equal(t, 200, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "seller", data["role"])

	resp, body = a.do(t, "POST", "/api/users", map[string]string{"email": "no-es-email", "name": "A"})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = a.do(t, "GET", "/api/users/"+data["id"].(string), nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp, body = a.do(t, "GET", "/api/users/"+uuid.NewString(), nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Usuario no encontrado", body["detail"])

	resp, _ = a.do(t, "GET", "/api/users/xyz", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestConversationFlow(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, "POST", "/api/conversations", map[string]string{"user_id": "u1", "user_name": "Ana"})
	require.Equal(t, 200, resp.StatusCode)
	convID := body["data"].(map[string]interface{})["id"].(string)

	resp, body = a.do(t, "POST", "/api/messages", map[string]string{"conversation_id": convID, "content": "¿Es legal el proyecto?"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Respuesta de Valeria.", body["data"].(map[string]interface{})["content"])

	resp, body = a.do(t, "GET", "/api/messages/"+convID, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 2)

	resp, body = a.do(t, "GET", "/api/search?q=legal", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["message_matches"])

	resp, _ = a.do(t, "GET", "/api/conversations/"+convID+"/export", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "conversacion_"+convID+".pdf")
}

func TestVoiceController_ChatShapes(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, "POST", "/api/chat", map[string]string{"message": "hola"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hola", body["message"])
	assert.Equal(t, "Respuesta de Valeria.", body["response"])
	assert.NotEmpty(t, body["conversation_id"])

	resp, body = a.do(t, "POST", "/api/text-chat", map[string]string{"text": "hola"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Respuesta de Valeria.", body["ai_response"])
	assert.Nil(t, body["audio_url"])

	resp, body = a.do(t, "POST", "/api/tts", map[string]string{"text": "hola"})
	assert.Equal(t, 503, resp.StatusCode)
	assert.EqualValues(t, 503, body["status_code"])
}

func TestDocumentController_Upload(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("user_id", "u1"))
	part, err := w.CreateFormFile("file", "reglamento.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Reglamento interno."))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := a.send(t, req)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "reglamento.txt", body["filename"])

	resp, body = a.do(t, "GET", "/api/documents/user/u1", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	req = httptest.NewRequest("POST", "/api/documents", strings.NewReader(""))
	resp, _ = a.send(t, req)
	assert.Equal(t, 400, resp.StatusCode)
}
