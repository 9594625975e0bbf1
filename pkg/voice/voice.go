package voice

import (
	"context"
	"errors"
)

// ErrRateLimited is wrapped when the voice backend rejects a call for quota.
var ErrRateLimited = errors.New("voice provider rate limited")

// Encoding selects the audio output of a synthesis call.
type Encoding string

const (
	// EncodingPlayback is browser-playable compressed audio.
	EncodingPlayback Encoding = "playback"
	// EncodingLipSync is raw PCM for the avatar renderer.
	EncodingLipSync Encoding = "lipsync"
)

// MimeType returns the content type clients should use for enc.
func (e Encoding) MimeType() string {
	if e == EncodingLipSync {
		return "audio/pcm"
	}
	return "audio/mpeg"
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, enc Encoding) ([]byte, error)
}
