package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/avatar"
	ragcontext "prados-legal-be/pkg/rag/context"
	"prados-legal-be/pkg/rag/response"
	"prados-legal-be/pkg/rag/session"
	"prados-legal-be/pkg/rag/store"
	"prados-legal-be/pkg/voice"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const logModule = "PIPELINE"

type Config struct {
	Persona       string
	MaxAudioBytes int
	MaxTextChars  int
	STTTimeout    time.Duration
	TTSTimeout    time.Duration
	PushTimeout   time.Duration
}

func DefaultConfig(persona string) Config {
	return Config{
		Persona:       persona,
		MaxAudioBytes: 5 * 1024 * 1024,
		MaxTextChars:  2000,
		STTTimeout:    30 * time.Second,
		TTSTimeout:    30 * time.Second,
		PushTimeout:   10 * time.Second,
	}
}

// TurnInput is one user turn. Exactly one of AudioBase64 or Text is used;
// audio wins when both are set.
type TurnInput struct {
	SessionID      string
	ConversationID string
	AudioBase64    string
	MimeHint       string
	Text           string
	// TextOnly skips speech synthesis entirely.
	TextOnly bool
	// Channel labels where the turn came from (text, voice, avatar, ws).
	Channel string
}

type TurnResult struct {
	TranscribedText string
	UserText        string
	ResponseText    string
	PlaybackAudio   []byte
	ConversationID  string
	LipSyncQueued   bool

	// Set by hooks that persist the turn.
	UserMessageID      string
	AssistantMessageID string
	RecordedAt         time.Time
}

// TurnHook runs after a turn is fully produced and before the session is
// released. A hook error fails the turn.
type TurnHook func(ctx context.Context, in TurnInput, res *TurnResult) error

type Dependencies struct {
	Store       store.Store
	Assembler   *ragcontext.Assembler
	Shaper      *response.Shaper
	Transcriber voice.Transcriber
	Synthesizer voice.Synthesizer
	Avatar      avatar.Channel
	Guard       *session.Guard
	Logger      logger.ILogger
}

// Orchestrator runs a conversational turn end to end:
// validate, transcribe, respond, synthesize, deliver.
type Orchestrator struct {
	deps   Dependencies
	cfg    Config
	hooks  []TurnHook
	pushes sync.WaitGroup
}

func NewOrchestrator(deps Dependencies, cfg Config) *Orchestrator {
	if deps.Avatar == nil {
		deps.Avatar = avatar.Disconnected{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Orchestrator{deps: deps, cfg: cfg}
}

func (o *Orchestrator) OnTurn(h TurnHook) {
	o.hooks = append(o.hooks, h)
}

// Run executes one turn under the session guard.
func (o *Orchestrator) Run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	ctx, span := otel.Tracer("pipeline").Start(ctx, "pipeline.Run")
	defer span.End()

	audio, err := o.validate(in)
	if err != nil {
		return nil, err
	}

	if in.ConversationID == "" {
		in.ConversationID = uuid.NewString()
	}
	lockKey := in.SessionID
	if lockKey == "" {
		lockKey = in.ConversationID
	}
	span.SetAttributes(
		attribute.String("session.id", lockKey),
		attribute.Bool("turn.audio", audio != nil),
	)

	h, err := o.deps.Guard.Acquire(lockKey)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	res := &TurnResult{ConversationID: in.ConversationID}

	query := strings.TrimSpace(in.Text)
	if audio != nil {
		if o.deps.Transcriber == nil {
			return nil, apperror.Unavailable("El servicio de voz")
		}
		query, err = o.transcribe(ctx, audio, in.MimeHint)
		if err != nil {
			return nil, err
		}
		res.TranscribedText = query
	}
	res.UserText = query

	res.ResponseText, err = o.Answer(ctx, query)
	if err != nil {
		return nil, err
	}

	var pcm []byte
	if !in.TextOnly {
		res.PlaybackAudio, pcm, err = o.synthesize(ctx, res.ResponseText, in.SessionID)
		if err != nil {
			return nil, err
		}
	}

	for _, hook := range o.hooks {
		if err := hook(ctx, in, res); err != nil {
			return nil, err
		}
	}

	if len(pcm) > 0 {
		res.LipSyncQueued = true
		o.pushDetached(in.SessionID, pcm)
	}
	return res, nil
}

// Answer retrieves context for query and returns the shaped response text.
func (o *Orchestrator) Answer(ctx context.Context, query string) (string, error) {
	docs, err := o.deps.Store.All(ctx)
	if err != nil {
		o.deps.Logger.Error(logModule, "Knowledge store read failed", map[string]interface{}{"error": err.Error()})
		return "", apperror.Wrap(apperror.KindUnavailable, "La base de conocimientos no está disponible", err)
	}
	contextText := o.deps.Assembler.Build(query, docs)
	return o.deps.Shaper.Generate(ctx, query, contextText, o.cfg.Persona)
}

func (o *Orchestrator) validate(in TurnInput) ([]byte, error) {
	if in.AudioBase64 != "" {
		encoded := lineBreaks.Replace(stripDataURL(in.AudioBase64))
		if o.cfg.MaxAudioBytes > 0 && len(encoded) > base64.StdEncoding.EncodedLen(o.cfg.MaxAudioBytes) {
			return nil, apperror.TooLarge("El audio supera el tamaño máximo permitido")
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, apperror.Input("Audio inválido: base64 mal formado")
		}
		if o.cfg.MaxAudioBytes > 0 && len(audio) > o.cfg.MaxAudioBytes {
			return nil, apperror.TooLarge("El audio supera el tamaño máximo permitido")
		}
		if len(audio) == 0 {
			return nil, apperror.EmptyInput()
		}
		return audio, nil
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperror.EmptyInput()
	}
	if o.cfg.MaxTextChars > 0 && utf8.RuneCountInString(text) > o.cfg.MaxTextChars {
		return nil, apperror.TooLarge("El mensaje supera la longitud máxima permitida")
	}
	return nil, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.cfg.STTTimeout)
	defer cancel()

	text, err := o.deps.Transcriber.Transcribe(ctx, audio, mimeHint)
	if err != nil {
		o.deps.Logger.Error(logModule, "Transcription failed", map[string]interface{}{"error": err.Error()})
		return "", voiceError("La transcripción", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.Input("No se pudo transcribir el audio")
	}
	return text, nil
}

// synthesize requests playback audio and, when the avatar is connected,
// lip-sync audio concurrently. A lip-sync failure yields nil pcm.
func (o *Orchestrator) synthesize(ctx context.Context, text, avatarSession string) ([]byte, []byte, error) {
	if o.deps.Synthesizer == nil {
		return nil, nil, apperror.Unavailable("El servicio de voz")
	}

	var playback, pcm []byte
	var g errgroup.Group

	g.Go(func() error {
		tctx, cancel := withTimeout(ctx, o.cfg.TTSTimeout)
		defer cancel()
		audio, err := o.deps.Synthesizer.Synthesize(tctx, text, voice.EncodingPlayback)
		if err != nil {
			return err
		}
		playback = audio
		return nil
	})

	if avatarSession != "" && o.deps.Avatar.IsConnected(avatarSession) {
		g.Go(func() error {
			tctx, cancel := withTimeout(ctx, o.cfg.TTSTimeout)
			defer cancel()
			audio, err := o.deps.Synthesizer.Synthesize(tctx, text, voice.EncodingLipSync)
			if err != nil {
				o.deps.Logger.Warn(logModule, "Lip-sync synthesis failed (non-fatal)", map[string]interface{}{
					"session": avatarSession,
					"error":   err.Error(),
				})
				return nil
			}
			pcm = audio
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.deps.Logger.Error(logModule, "Playback synthesis failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, voiceError("La síntesis de voz", err)
	}
	return playback, pcm, nil
}

func (o *Orchestrator) pushDetached(sessionID string, pcm []byte) {
	o.pushes.Add(1)
	go func() {
		defer o.pushes.Done()
		ctx, cancel := withTimeout(context.Background(), o.cfg.PushTimeout)
		defer cancel()
		if err := o.deps.Avatar.PushAudio(ctx, sessionID, pcm); err != nil {
			o.deps.Logger.Warn(logModule, "Avatar push failed (non-fatal)", map[string]interface{}{
				"session": sessionID,
				"error":   err.Error(),
			})
		}
	}()
}

// Drain blocks until every detached avatar push has finished.
func (o *Orchestrator) Drain() {
	o.pushes.Wait()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func voiceError(collaborator string, err error) error {
	if errors.Is(err, voice.ErrRateLimited) {
		return apperror.RateLimited(err)
	}
	return apperror.FromCollaborator(collaborator, apperror.KindUnavailable, err)
}

// lineBreaks removes MIME line wrapping, which the decoder skips anyway.
var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func stripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
