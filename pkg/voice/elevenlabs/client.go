package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"prados-legal-be/pkg/voice"
)

const defaultBaseURL = "https://api.elevenlabs.io"

type Config struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	ModelID         string
	STTModelID      string
	Stability       float64
	SimilarityBoost float64
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         defaultBaseURL,
		VoiceID:         "saqk76H0L3GCnuHtLDw6",
		ModelID:         "eleven_multilingual_v2",
		STTModelID:      "scribe_v1",
		Stability:       0.55,
		SimilarityBoost: 0.80,
	}
}

// Client implements voice.Transcriber and voice.Synthesizer over the
// ElevenLabs REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var (
	_ voice.Transcriber = (*Client)(nil)
	_ voice.Synthesizer = (*Client)(nil)
)

func New(cfg Config) *Client {
	return NewWithClient(cfg, &http.Client{})
}

func NewWithClient(cfg Config, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{}
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{cfg: cfg, httpClient: client}
}

func (c *Client) Name() string {
	return "elevenlabs"
}

func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

func outputFormat(enc voice.Encoding) string {
	if enc == voice.EncodingLipSync {
		// PCM 16-bit 24kHz, the format the avatar renderer expects
		return "pcm_24000"
	}
	return "mp3_44100_128"
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type sttResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
}

func (c *Client) Synthesize(ctx context.Context, text string, enc voice.Encoding) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	u, err := url.Parse(c.cfg.BaseURL + "/v1/text-to-speech/" + url.PathEscape(c.cfg.VoiceID))
	if err != nil {
		return nil, fmt.Errorf("build tts url: %w", err)
	}
	q := u.Query()
	q.Set("output_format", outputFormat(enc))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("elevenlabs returned empty audio")
	}
	return body, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "audio."+extension(mimeHint))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := mw.WriteField("model_id", c.cfg.STTModelID); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var out sttResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode stt response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: elevenlabs status %d", voice.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func extension(mimeHint string) string {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeHint, ";", 2)[0]))
	switch mt {
	case "audio/webm":
		return "webm"
	case "audio/ogg", "audio/opus":
		return "ogg"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "m4a"
	default:
		return "webm"
	}
}
