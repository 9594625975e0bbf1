package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"prados-legal-be/internal/model"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/avatar"
	"prados-legal-be/pkg/avatar/liveavatar"
	"prados-legal-be/pkg/database"
	"prados-legal-be/pkg/events"
	"prados-legal-be/pkg/voice"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDBFromDSN("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	return unitofwork.NewRepositoryFactory(newTestDB(t))
}

// fakeRunner answers every turn with a fixed reply and runs the hooks the
// orchestrator would run.
type fakeRunner struct {
	reply string
	audio []byte
	err   error
	hooks []pipeline.TurnHook

	mu    sync.Mutex
	calls []pipeline.TurnInput
}

func (f *fakeRunner) Run(ctx context.Context, in pipeline.TurnInput) (*pipeline.TurnResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if in.ConversationID == "" {
		in.ConversationID = uuid.NewString()
	}
	res := &pipeline.TurnResult{
		ConversationID: in.ConversationID,
		UserText:       strings.TrimSpace(in.Text),
		ResponseText:   f.reply,
	}
	if in.AudioBase64 != "" {
		res.TranscribedText = "consulta transcrita"
		res.UserText = res.TranscribedText
	}
	if !in.TextOnly {
		res.PlaybackAudio = f.audio
	}
	for _, h := range f.hooks {
		if err := h(ctx, in, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (f *fakeRunner) lastCall() pipeline.TurnInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(context.Context, string, voice.Encoding) ([]byte, error) {
	return f.audio, f.err
}

type fakeGateway struct {
	configured  bool
	session     *avatar.Session
	err         error
	interrupted []string
	closed      []string
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) AvatarConfig() liveavatar.AvatarConfig {
	return liveavatar.AvatarConfig{AvatarID: "avatar-1", AvatarName: "Valeria", Service: "liveavatar-lite"}
}

func (g *fakeGateway) CreateSession(context.Context) (*avatar.Session, error) {
	return g.session, g.err
}

func (g *fakeGateway) Interrupt(_ context.Context, sessionID string) error {
	g.interrupted = append(g.interrupted, sessionID)
	return g.err
}

func (g *fakeGateway) Close(sessionID string) error {
	g.closed = append(g.closed, sessionID)
	return nil
}

type fakeEvicter struct{ evicted []string }

func (f *fakeEvicter) Evict(sessionID string) { f.evicted = append(f.evicted, sessionID) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type recordingQueue struct {
	payloads [][]byte
}

func (q *recordingQueue) Publish(_ context.Context, payload []byte) error {
	q.payloads = append(q.payloads, payload)
	return nil
}

func nopLog() logger.ILogger { return logger.NewNopLogger() }

func kindOf(err error) apperror.Kind {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
