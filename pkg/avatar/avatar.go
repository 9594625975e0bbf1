package avatar

import (
	"context"
	"errors"
	"time"
)

var ErrNotConnected = errors.New("avatar channel not connected")

// Channel delivers lip-sync audio to a rendered avatar. Implementations are
// keyed by the avatar session id.
type Channel interface {
	IsConnected(sessionID string) bool
	PushAudio(ctx context.Context, sessionID string, pcm []byte) error
	Interrupt(ctx context.Context, sessionID string) error
	Close(sessionID string) error
}

// Session is what the frontend needs to attach to the avatar video stream.
type Session struct {
	SessionID    string    `json:"session_id"`
	SessionToken string    `json:"session_token"`
	LiveKitURL   string    `json:"livekit_url"`
	LiveKitToken string    `json:"livekit_token"`
	WSURL        string    `json:"ws_url"`
	AvatarID     string    `json:"avatar_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Disconnected is a Channel that never has a live connection. It is used
// when no avatar service is configured.
type Disconnected struct{}

func (Disconnected) IsConnected(string) bool { return false }

func (Disconnected) PushAudio(context.Context, string, []byte) error { return ErrNotConnected }

func (Disconnected) Interrupt(context.Context, string) error { return nil }

func (Disconnected) Close(string) error { return nil }
