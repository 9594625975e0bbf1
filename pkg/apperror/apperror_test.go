package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"input", Input("bad"), http.StatusBadRequest},
		{"empty input", EmptyInput(), http.StatusBadRequest},
		{"too large", TooLarge("audio"), http.StatusRequestEntityTooLarge},
		{"media", UnsupportedMedia("image/png"), http.StatusUnsupportedMediaType},
		{"not found", NotFound("conversation"), http.StatusNotFound},
		{"busy", SessionBusy(), http.StatusTooManyRequests},
		{"rate limited", RateLimited(errors.New("429")), http.StatusTooManyRequests},
		{"unavailable", Unavailable("ElevenLabs"), http.StatusServiceUnavailable},
		{"timeout", Timeout("LLM", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"generation", Generation(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("speak: %w", SessionBusy()), http.StatusTooManyRequests},
		{"raw deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestSentinelsMatchAnyMessage(t *testing.T) {
	err := fmt.Errorf("turn: %w", Generation(errors.New("provider exploded")))

	assert.ErrorIs(t, err, ErrGeneration)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestPublicMessageDoesNotLeakCause(t *testing.T) {
	err := Generation(errors.New("api key sk-123 rejected"))

	assert.Equal(t, "No se pudo generar la respuesta", PublicMessage(err))
	assert.Equal(t, "internal error", PublicMessage(errors.New("stack trace here")))
}

func TestFromCollaborator(t *testing.T) {
	assert.Nil(t, FromCollaborator("STT", KindGeneration, nil))

	timeout := FromCollaborator("STT", KindGeneration, fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, timeout, ErrTimeout)

	busy := SessionBusy()
	assert.Same(t, busy, FromCollaborator("STT", KindGeneration, busy))

	other := FromCollaborator("TTS", KindUnavailable, errors.New("dial tcp"))
	assert.ErrorIs(t, other, ErrUnavailable)
}
