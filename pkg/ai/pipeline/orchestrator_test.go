package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/llm"
	ragcontext "prados-legal-be/pkg/rag/context"
	"prados-legal-be/pkg/rag/response"
	"prados-legal-be/pkg/rag/session"
	"prados-legal-be/pkg/rag/store"
	"prados-legal-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply   string
	started chan struct{}
	unblock chan struct{}
	prompts []string
	mu      sync.Mutex
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, history[0].Content)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.unblock != nil {
		select {
		case <-f.unblock:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type fakeSTT struct {
	text  string
	err   error
	calls int32
}

func (f *fakeSTT) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.text, f.err
}

type fakeTTS struct {
	lipSyncErr  error
	playbackErr error
	calls       int32
}

func (f *fakeTTS) Synthesize(_ context.Context, text string, enc voice.Encoding) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if enc == voice.EncodingLipSync {
		if f.lipSyncErr != nil {
			return nil, f.lipSyncErr
		}
		return []byte("pcm:" + text), nil
	}
	if f.playbackErr != nil {
		return nil, f.playbackErr
	}
	return []byte("mp3:" + text), nil
}

type fakeAvatar struct {
	connected bool
	pushErr   error
	mu        sync.Mutex
	pushed    [][]byte
}

func (f *fakeAvatar) IsConnected(string) bool { return f.connected }

func (f *fakeAvatar) PushAudio(_ context.Context, _ string, pcm []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, pcm)
	return f.pushErr
}

func (f *fakeAvatar) Interrupt(context.Context, string) error { return nil }
func (f *fakeAvatar) Close(string) error                      { return nil }

type fixture struct {
	orc    *Orchestrator
	llm    *fakeLLM
	stt    *fakeSTT
	tts    *fakeTTS
	avatar *fakeAvatar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	_, err := st.Insert(context.Background(), "Condiciones Legales de Prados de Paraíso",
		"Posesión\n\nLa empresa ejerce posesión legítima desde 1998 sobre el terreno.", nil)
	require.NoError(t, err)

	f := &fixture{
		llm:    &fakeLLM{reply: "Tenemos posesión legítima desde 1998. Está documentada notarialmente."},
		stt:    &fakeSTT{text: "¿Desde cuándo tienen posesión?"},
		tts:    &fakeTTS{},
		avatar: &fakeAvatar{},
	}
	f.orc = NewOrchestrator(Dependencies{
		Store:       st,
		Assembler:   ragcontext.NewAssembler(ragcontext.DefaultConfig()),
		Shaper:      response.NewShaper(f.llm, response.DefaultConfig()),
		Transcriber: f.stt,
		Synthesizer: f.tts,
		Avatar:      f.avatar,
		Guard:       session.NewGuard(session.DefaultIdleTimeout),
	}, DefaultConfig("Eres Valeria."))
	return f
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestRun_AudioTurn(t *testing.T) {
	f := newFixture(t)
	f.avatar.connected = true

	res, err := f.orc.Run(context.Background(), TurnInput{
		SessionID:   "avatar-1",
		AudioBase64: b64([]byte("voice")),
		MimeHint:    "audio/webm",
	})
	require.NoError(t, err)
	f.orc.Drain()

	assert.Equal(t, "¿Desde cuándo tienen posesión?", res.TranscribedText)
	assert.Contains(t, res.ResponseText, "1998")
	assert.Equal(t, []byte("mp3:"+res.ResponseText), res.PlaybackAudio)
	assert.NotEmpty(t, res.ConversationID)
	assert.True(t, res.LipSyncQueued)
	assert.Contains(t, f.llm.prompts[0], "1998")

	require.Len(t, f.avatar.pushed, 1)
	assert.Equal(t, []byte("pcm:"+res.ResponseText), f.avatar.pushed[0])
}

func TestRun_NoLipSyncWhenAvatarDisconnected(t *testing.T) {
	f := newFixture(t)

	res, err := f.orc.Run(context.Background(), TurnInput{SessionID: "s", Text: "Hola"})
	require.NoError(t, err)
	f.orc.Drain()

	assert.False(t, res.LipSyncQueued)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tts.calls))
	assert.Empty(t, f.avatar.pushed)
}

func TestRun_LipSyncFailureTolerated(t *testing.T) {
	tests := []struct {
		name       string
		lipSyncErr error
		pushErr    error
	}{
		{"synthesis fails", errors.New("pcm backend down"), nil},
		{"push fails", nil, errors.New("socket closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.avatar.connected = true
			f.avatar.pushErr = tt.pushErr
			f.tts.lipSyncErr = tt.lipSyncErr

			res, err := f.orc.Run(context.Background(), TurnInput{SessionID: "s", Text: "¿Desde cuándo tienen posesión?"})
			require.NoError(t, err)
			f.orc.Drain()

			assert.NotEmpty(t, res.ResponseText)
			assert.NotEmpty(t, res.PlaybackAudio)
		})
	}
}

func TestRun_PlaybackFailureFailsTurn(t *testing.T) {
	f := newFixture(t)
	f.tts.playbackErr = errors.New("tts down")

	hookCalled := false
	f.orc.OnTurn(func(context.Context, TurnInput, *TurnResult) error {
		hookCalled = true
		return nil
	})

	_, err := f.orc.Run(context.Background(), TurnInput{SessionID: "s", Text: "Hola"})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
	assert.False(t, hookCalled)
}

func TestRun_RejectsBeforeAnyCollaborator(t *testing.T) {
	tests := []struct {
		name    string
		in      TurnInput
		wantErr error
		status  int
	}{
		{
			name:    "oversized audio",
			in:      TurnInput{AudioBase64: b64(make([]byte, 5*1024*1024+1))},
			wantErr: apperror.ErrTooLarge,
			status:  413,
		},
		{
			name:    "oversized text",
			in:      TurnInput{Text: strings.Repeat("á", 2001)},
			wantErr: apperror.ErrTooLarge,
			status:  413,
		},
		{
			name:    "empty text",
			in:      TurnInput{Text: "   "},
			wantErr: apperror.ErrInput,
			status:  400,
		},
		{
			name:    "bad base64",
			in:      TurnInput{AudioBase64: "%%%"},
			wantErr: apperror.ErrInput,
			status:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.orc.Run(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, apperror.StatusCode(err))
			assert.Zero(t, atomic.LoadInt32(&f.stt.calls))
			assert.Zero(t, atomic.LoadInt32(&f.tts.calls))
			assert.Empty(t, f.llm.prompts)
		})
	}
}

func TestRun_LineWrappedAudioAtLimit(t *testing.T) {
	f := newFixture(t)
	encoded := b64(make([]byte, 5*1024*1024))
	var wrapped strings.Builder
	for len(encoded) > 76 {
		wrapped.WriteString(encoded[:76])
		wrapped.WriteString("\r\n")
		encoded = encoded[76:]
	}
	wrapped.WriteString(encoded)

	res, err := f.orc.Run(context.Background(), TurnInput{AudioBase64: wrapped.String(), TextOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "¿Desde cuándo tienen posesión?", res.TranscribedText)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.stt.calls))
}

func TestRun_EmptyTranscript(t *testing.T) {
	f := newFixture(t)
	f.stt.text = "  "

	_, err := f.orc.Run(context.Background(), TurnInput{AudioBase64: b64([]byte("x"))})
	assert.ErrorIs(t, err, apperror.ErrInput)
	assert.Empty(t, f.llm.prompts)
}

func TestRun_BusySession(t *testing.T) {
	f := newFixture(t)
	f.llm.started = make(chan struct{}, 1)
	f.llm.unblock = make(chan struct{})

	type outcome struct {
		res *TurnResult
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := f.orc.Run(context.Background(), TurnInput{SessionID: "same", Text: "Primera"})
		first <- outcome{res, err}
	}()

	select {
	case <-f.llm.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first turn never reached the model")
	}

	_, err := f.orc.Run(context.Background(), TurnInput{SessionID: "same", Text: "Segunda"})
	assert.ErrorIs(t, err, apperror.ErrSessionBusy)
	assert.Equal(t, 429, apperror.StatusCode(err))

	close(f.llm.unblock)
	out := <-first
	require.NoError(t, out.err)
	assert.NotEmpty(t, out.res.ResponseText)

	f.llm.started = nil
	_, err = f.orc.Run(context.Background(), TurnInput{SessionID: "same", Text: "Tercera"})
	assert.NoError(t, err)
}

func TestRun_HookErrorFailsTurn(t *testing.T) {
	f := newFixture(t)
	f.avatar.connected = true
	f.orc.OnTurn(func(context.Context, TurnInput, *TurnResult) error {
		return errors.New("db down")
	})

	_, err := f.orc.Run(context.Background(), TurnInput{SessionID: "s", Text: "Hola"})
	require.Error(t, err)
	f.orc.Drain()
	assert.Empty(t, f.avatar.pushed)
}

func TestRun_TextOnlySkipsSynthesis(t *testing.T) {
	f := newFixture(t)

	var seen *TurnResult
	f.orc.OnTurn(func(_ context.Context, in TurnInput, res *TurnResult) error {
		seen = res
		assert.Equal(t, "conv-1", in.ConversationID)
		return nil
	})

	res, err := f.orc.Run(context.Background(), TurnInput{ConversationID: "conv-1", Text: "Hola", TextOnly: true})
	require.NoError(t, err)
	assert.Nil(t, res.PlaybackAudio)
	assert.Zero(t, atomic.LoadInt32(&f.tts.calls))
	assert.Same(t, res, seen)
	assert.Equal(t, "Hola", res.UserText)
}
