package liveavatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/avatar"

	"github.com/gorilla/websocket"
)

const (
	defaultBaseURL = "https://api.liveavatar.com/v1"
	codeOK         = 1000
	avatarName     = "Valeria - Asistente Legal IA"
	serviceName    = "liveavatar-lite"
	logModule      = "LIVEAVATAR"
)

type Config struct {
	APIKey            string
	AvatarID          string
	BaseURL           string
	KeepAliveInterval time.Duration
}

type AvatarConfig struct {
	AvatarID   string `json:"avatar_id"`
	AvatarName string `json:"avatar_name"`
	Service    string `json:"service"`
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type tokenData struct {
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
}

type startData struct {
	LiveKitURL         string `json:"livekit_url"`
	LiveKitClientToken string `json:"livekit_client_token"`
	WSURL              string `json:"ws_url"`
}

// Client talks to LiveAvatar in LITE mode: the service renders video and
// lip-sync while audio is produced here and pushed over the session socket.
type Client struct {
	cfg        Config
	httpClient *http.Client
	dialer     *websocket.Dialer
	log        logger.ILogger
	now        func() time.Time

	mu    sync.RWMutex
	conns map[string]*conn
}

var _ avatar.Channel = (*Client)(nil)

func New(cfg Config, log logger.ILogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dialer:     websocket.DefaultDialer,
		log:        log,
		now:        time.Now,
		conns:      make(map[string]*conn),
	}
}

func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.AvatarID != ""
}

func (c *Client) AvatarConfig() AvatarConfig {
	return AvatarConfig{AvatarID: c.cfg.AvatarID, AvatarName: avatarName, Service: serviceName}
}

// CreateSession requests a session token, starts the session and, when the
// service returns a socket url, connects to it.
func (c *Client) CreateSession(ctx context.Context) (*avatar.Session, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("liveavatar api key or avatar id not configured")
	}

	var tok tokenData
	err := c.post(ctx, "/sessions/token", map[string]string{
		"X-API-KEY": c.cfg.APIKey,
	}, map[string]string{"mode": "LITE", "avatar_id": c.cfg.AvatarID}, &tok)
	if err != nil {
		return nil, fmt.Errorf("liveavatar token: %w", err)
	}

	var start startData
	err = c.post(ctx, "/sessions/start", map[string]string{
		"Authorization": "Bearer " + tok.SessionToken,
	}, nil, &start)
	if err != nil {
		return nil, fmt.Errorf("liveavatar start: %w", err)
	}

	sess := &avatar.Session{
		SessionID:    tok.SessionID,
		SessionToken: tok.SessionToken,
		LiveKitURL:   start.LiveKitURL,
		LiveKitToken: start.LiveKitClientToken,
		WSURL:        start.WSURL,
		AvatarID:     c.cfg.AvatarID,
		CreatedAt:    c.now(),
	}
	c.log.Info(logModule, "Session started", map[string]interface{}{
		"session": short(sess.SessionID),
		"livekit": sess.LiveKitURL,
	})

	if sess.WSURL == "" {
		c.log.Warn(logModule, "No ws_url returned, lip-sync unavailable", map[string]interface{}{"session": short(sess.SessionID)})
		return sess, nil
	}
	if err := c.Connect(ctx, sess.SessionID, sess.WSURL); err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, body interface{}, out interface{}) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if env.Code != codeOK {
		return fmt.Errorf("code %d: %s", env.Code, env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

// Connect dials the session socket. A session that is already connected is
// left untouched.
func (c *Client) Connect(ctx context.Context, sessionID, wsURL string) error {
	if c.IsConnected(sessionID) {
		return nil
	}

	ws, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("liveavatar websocket: %w", err)
	}

	cn := newConn(sessionID, ws, c.now)
	c.mu.Lock()
	if _, ok := c.conns[sessionID]; ok {
		c.mu.Unlock()
		_ = cn.close()
		return nil
	}
	c.conns[sessionID] = cn
	c.mu.Unlock()

	go c.listen(cn)
	if c.cfg.KeepAliveInterval > 0 {
		go c.keepAlive(cn, c.cfg.KeepAliveInterval)
	}

	c.log.Info(logModule, "WebSocket connected", map[string]interface{}{"session": short(sessionID)})
	return nil
}

func (c *Client) listen(cn *conn) {
	defer c.drop(cn)
	for {
		_, data, err := cn.ws.ReadMessage()
		if err != nil {
			select {
			case <-cn.closed:
			default:
				c.log.Warn(logModule, "WS listener ended", map[string]interface{}{
					"session": short(cn.sessionID),
					"error":   err.Error(),
				})
			}
			return
		}

		var evt struct {
			Type  string `json:"type"`
			State string `json:"state"`
		}
		if err := json.Unmarshal(data, &evt); err != nil {
			continue
		}
		switch evt.Type {
		case "agent.speak_started":
			c.log.Info(logModule, "Avatar speak started", map[string]interface{}{"session": short(cn.sessionID)})
		case "agent.speak_ended":
			c.log.Info(logModule, "Avatar speak ended", map[string]interface{}{"session": short(cn.sessionID)})
		case "session.state_updated":
			c.log.Info(logModule, "Session state updated", map[string]interface{}{
				"session": short(cn.sessionID),
				"state":   evt.State,
			})
		}
	}
}

func (c *Client) keepAlive(cn *conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-cn.closed:
			return
		case <-ticker.C:
			if err := cn.send(context.Background(), event{Type: "session.keep_alive"}); err != nil {
				c.log.Warn(logModule, "Keep-alive failed", map[string]interface{}{
					"session": short(cn.sessionID),
					"error":   err.Error(),
				})
			}
		}
	}
}

func (c *Client) drop(cn *conn) {
	c.mu.Lock()
	if c.conns[cn.sessionID] == cn {
		delete(c.conns, cn.sessionID)
	}
	c.mu.Unlock()
	_ = cn.close()
}

func (c *Client) get(sessionID string) (*conn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cn, ok := c.conns[sessionID]
	return cn, ok
}

func (c *Client) IsConnected(sessionID string) bool {
	_, ok := c.get(sessionID)
	return ok
}

// PushAudio sends 16-bit 24kHz PCM to the avatar as agent.speak events.
func (c *Client) PushAudio(ctx context.Context, sessionID string, pcm []byte) error {
	cn, ok := c.get(sessionID)
	if !ok {
		return avatar.ErrNotConnected
	}
	n, err := cn.speak(ctx, pcm)
	if err != nil {
		return fmt.Errorf("liveavatar speak: %w", err)
	}
	c.log.Info(logModule, "Sent audio to avatar", map[string]interface{}{
		"session": short(sessionID),
		"chunks":  n,
		"bytes":   len(pcm),
	})
	return nil
}

func (c *Client) Interrupt(ctx context.Context, sessionID string) error {
	cn, ok := c.get(sessionID)
	if !ok {
		c.log.Warn(logModule, "No WS to interrupt", map[string]interface{}{"session": short(sessionID)})
		return nil
	}
	return cn.send(ctx, event{Type: "agent.interrupt"})
}

func (c *Client) KeepAlive(ctx context.Context, sessionID string) error {
	cn, ok := c.get(sessionID)
	if !ok {
		return nil
	}
	return cn.send(ctx, event{Type: "session.keep_alive"})
}

func (c *Client) Close(sessionID string) error {
	c.mu.Lock()
	cn, ok := c.conns[sessionID]
	delete(c.conns, sessionID)
	c.mu.Unlock()

	if ok {
		_ = cn.close()
	}
	c.log.Info(logModule, "Session closed", map[string]interface{}{"session": short(sessionID)})
	return nil
}

func (c *Client) CloseAll() {
	c.mu.Lock()
	conns := c.conns
	c.conns = make(map[string]*conn)
	c.mu.Unlock()
	for _, cn := range conns {
		_ = cn.close()
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
