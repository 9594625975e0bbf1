package liveavatar

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/avatar"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	t      *testing.T
	srv    *httptest.Server
	events chan event
}

func newFakeService(t *testing.T) *fakeService {
	fs := &fakeService{t: t, events: make(chan event, 64)}
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/sessions/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("X-API-KEY"))
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "LITE", body["mode"])
		assert.Equal(t, "avatar-1", body["avatar_id"])
		_, _ = w.Write([]byte(`{"code":1000,"message":"ok","data":{"session_id":"0123456789abcdef","session_token":"tok"}}`))
	})
	mux.HandleFunc("/sessions/start", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		wsURL := "ws" + strings.TrimPrefix(fs.srv.URL, "http") + "/ws"
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 1000,
			"data": map[string]string{
				"livekit_url":          "wss://livekit.example",
				"livekit_client_token": "lk",
				"ws_url":               wsURL,
			},
		})
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteJSON(map[string]string{"type": "session.state_updated", "state": "connected"})
		for {
			var evt event
			if err := ws.ReadJSON(&evt); err != nil {
				return
			}
			fs.events <- evt
		}
	})

	fs.srv = httptest.NewServer(mux)
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeService) next(t *testing.T) event {
	t.Helper()
	select {
	case evt := <-fs.events:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return event{}
	}
}

func newTestClient(fs *fakeService) *Client {
	return New(Config{APIKey: "key-1", AvatarID: "avatar-1", BaseURL: fs.srv.URL}, logger.NewNopLogger())
}

func TestCreateSession_ConnectsSocket(t *testing.T) {
	fs := newFakeService(t)
	c := newTestClient(fs)
	defer c.CloseAll()

	sess, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", sess.SessionID)
	assert.Equal(t, "wss://livekit.example", sess.LiveKitURL)
	assert.Equal(t, "lk", sess.LiveKitToken)
	assert.True(t, c.IsConnected(sess.SessionID))
}

func TestCreateSession_ErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":4001,"message":"invalid avatar"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", AvatarID: "a", BaseURL: srv.URL}, logger.NewNopLogger())
	_, err := c.CreateSession(context.Background())
	assert.ErrorContains(t, err, "invalid avatar")
}

func TestCreateSession_NotConfigured(t *testing.T) {
	c := New(Config{}, logger.NewNopLogger())
	_, err := c.CreateSession(context.Background())
	assert.Error(t, err)
}

func TestPushAudio_ChunksAndEventIDs(t *testing.T) {
	fs := newFakeService(t)
	c := newTestClient(fs)
	defer c.CloseAll()

	sess, err := c.CreateSession(context.Background())
	require.NoError(t, err)

	pcm := make([]byte, ChunkSize*2+10)
	for i := range pcm {
		pcm[i] = byte(i % 251)
	}
	require.NoError(t, c.PushAudio(context.Background(), sess.SessionID, pcm))

	idPattern := regexp.MustCompile(`^01234567_(\d+)_\d{12}$`)
	var got []byte
	for i := 1; i <= 3; i++ {
		evt := fs.next(t)
		assert.Equal(t, "agent.speak", evt.Type)
		m := idPattern.FindStringSubmatch(evt.EventID)
		require.NotNil(t, m, evt.EventID)
		assert.Equal(t, string(rune('0'+i)), m[1])

		chunk, err := base64.StdEncoding.DecodeString(evt.Audio)
		require.NoError(t, err)
		got = append(got, chunk...)
	}
	assert.Equal(t, pcm, got)

	require.NoError(t, c.Interrupt(context.Background(), sess.SessionID))
	assert.Equal(t, "agent.interrupt", fs.next(t).Type)

	require.NoError(t, c.KeepAlive(context.Background(), sess.SessionID))
	assert.Equal(t, "session.keep_alive", fs.next(t).Type)
}

func TestClose_Disconnects(t *testing.T) {
	fs := newFakeService(t)
	c := newTestClient(fs)

	sess, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Close(sess.SessionID))

	assert.False(t, c.IsConnected(sess.SessionID))
	assert.ErrorIs(t, c.PushAudio(context.Background(), sess.SessionID, []byte{1}), avatar.ErrNotConnected)
	assert.NoError(t, c.Interrupt(context.Background(), sess.SessionID))
}

func TestAvatarConfig(t *testing.T) {
	c := New(Config{AvatarID: "avatar-1"}, logger.NewNopLogger())
	cfg := c.AvatarConfig()
	assert.Equal(t, "avatar-1", cfg.AvatarID)
	assert.Equal(t, "Valeria - Asistente Legal IA", cfg.AvatarName)
	assert.Equal(t, "liveavatar-lite", cfg.Service)
}
