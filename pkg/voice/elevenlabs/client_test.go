package elevenlabs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"prados-legal-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "xi-test"
	cfg.BaseURL = srv.URL
	return New(cfg)
}

func TestSynthesize_OutputFormatPerEncoding(t *testing.T) {
	tests := []struct {
		enc  voice.Encoding
		want string
	}{
		{voice.EncodingPlayback, "mp3_44100_128"},
		{voice.EncodingLipSync, "pcm_24000"},
	}

	for _, tt := range tests {
		t.Run(string(tt.enc), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/text-to-speech/saqk76H0L3GCnuHtLDw6", r.URL.Path)
				assert.Equal(t, tt.want, r.URL.Query().Get("output_format"))
				assert.Equal(t, "xi-test", r.Header.Get("xi-api-key"))

				var req ttsRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "eleven_multilingual_v2", req.ModelID)
				assert.InDelta(t, 0.55, req.VoiceSettings.Stability, 1e-9)
				_, _ = w.Write([]byte("audio-bytes"))
			})

			audio, err := c.Synthesize(context.Background(), "Hola.", tt.enc)
			require.NoError(t, err)
			assert.Equal(t, []byte("audio-bytes"), audio)
		})
	}
}

func TestTranscribe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "audio.webm", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, []byte{1, 2, 3}, data)

		_ = json.NewEncoder(w).Encode(sttResponse{Text: "  ¿Desde cuándo tienen posesión?  "})
	})

	text, err := c.Transcribe(context.Background(), []byte{1, 2, 3}, "audio/webm;codecs=opus")
	require.NoError(t, err)
	assert.Equal(t, "¿Desde cuándo tienen posesión?", text)
}

func TestErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Synthesize(context.Background(), "Hola.", voice.EncodingPlayback)
	assert.ErrorIs(t, err, voice.ErrRateLimited)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})
	_, err = c.Transcribe(context.Background(), []byte{1}, "audio/wav")
	assert.ErrorContains(t, err, "401")
}
