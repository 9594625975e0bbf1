package service

import (
	"context"
	"strings"

	"prados-legal-be/internal/constant"
	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/memory"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/avatar"
	"prados-legal-be/pkg/avatar/liveavatar"
)

const avatarCollaborator = "LiveAvatar"

// AvatarGateway is the part of the LiveAvatar client the API drives.
type AvatarGateway interface {
	Configured() bool
	AvatarConfig() liveavatar.AvatarConfig
	CreateSession(ctx context.Context) (*avatar.Session, error)
	Interrupt(ctx context.Context, sessionID string) error
	Close(sessionID string) error
}

// SessionEvicter forgets per-session turn state.
type SessionEvicter interface {
	Evict(sessionID string)
}

type IAvatarService interface {
	Config() liveavatar.AvatarConfig
	CreateSession(ctx context.Context) (*dto.AvatarSessionResponse, error)
	Speak(ctx context.Context, req *dto.AvatarSpeakRequest) (*dto.AvatarSpeakResponse, error)
	SpeakText(ctx context.Context, req *dto.AvatarSpeakTextRequest) (*dto.AvatarSpeakResponse, error)
	Interrupt(ctx context.Context, req *dto.AvatarInterruptRequest) (*dto.SuccessFlagResponse, error)
	CloseSession(ctx context.Context, sessionId string) (*dto.SuccessFlagResponse, error)
}

type avatarService struct {
	gateway  AvatarGateway
	runner   TurnRunner
	guard    SessionEvicter
	sessions *memory.AvatarSessionRepository
	logger   logger.ILogger
}

func NewAvatarService(
	gateway AvatarGateway,
	runner TurnRunner,
	guard SessionEvicter,
	sessions *memory.AvatarSessionRepository,
	log logger.ILogger,
) IAvatarService {
	return &avatarService{
		gateway:  gateway,
		runner:   runner,
		guard:    guard,
		sessions: sessions,
		logger:   log,
	}
}

func (s *avatarService) Config() liveavatar.AvatarConfig {
	return s.gateway.AvatarConfig()
}

func (s *avatarService) CreateSession(ctx context.Context) (*dto.AvatarSessionResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Unavailable(avatarCollaborator)
	}

	sess, err := s.gateway.CreateSession(ctx)
	if err != nil {
		s.logger.Error("AVATAR", "Session creation failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.FromCollaborator(avatarCollaborator, apperror.KindUnavailable, err)
	}
	s.sessions.Save(sess)

	return &dto.AvatarSessionResponse{Success: true, Session: sess}, nil
}

func (s *avatarService) Speak(ctx context.Context, req *dto.AvatarSpeakRequest) (*dto.AvatarSpeakResponse, error) {
	return s.speak(ctx, req.SessionId, pipeline.TurnInput{
		SessionID:      req.SessionId,
		ConversationID: req.ConversationId,
		AudioBase64:    req.AudioBase64,
		MimeHint:       req.MimeType,
		Channel:        constant.ChannelAvatar,
	})
}

func (s *avatarService) SpeakText(ctx context.Context, req *dto.AvatarSpeakTextRequest) (*dto.AvatarSpeakResponse, error) {
	return s.speak(ctx, req.SessionId, pipeline.TurnInput{
		SessionID:      req.SessionId,
		ConversationID: req.ConversationId,
		Text:           req.Text,
		Channel:        constant.ChannelAvatar,
	})
}

func (s *avatarService) speak(ctx context.Context, sessionId string, in pipeline.TurnInput) (*dto.AvatarSpeakResponse, error) {
	if strings.TrimSpace(sessionId) == "" {
		return nil, apperror.Input("session_id es obligatorio")
	}

	res, err := s.runner.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	s.sessions.Touch(sessionId)

	return &dto.AvatarSpeakResponse{
		Success:         true,
		TranscribedText: res.TranscribedText,
		AiResponse:      res.ResponseText,
		AudioUrl:        AudioDataURL(res.PlaybackAudio),
		ConversationId:  res.ConversationID,
		LipSyncQueued:   res.LipSyncQueued,
	}, nil
}

func (s *avatarService) Interrupt(ctx context.Context, req *dto.AvatarInterruptRequest) (*dto.SuccessFlagResponse, error) {
	if err := s.gateway.Interrupt(ctx, req.SessionId); err != nil {
		s.logger.Warn("AVATAR", "Interrupt failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.FromCollaborator(avatarCollaborator, apperror.KindUnavailable, err)
	}
	return &dto.SuccessFlagResponse{Success: true}, nil
}

// CloseSession is idempotent; closing an unknown session succeeds.
func (s *avatarService) CloseSession(ctx context.Context, sessionId string) (*dto.SuccessFlagResponse, error) {
	if err := s.gateway.Close(sessionId); err != nil {
		s.logger.Warn("AVATAR", "Close failed", map[string]interface{}{"error": err.Error()})
	}
	s.guard.Evict(sessionId)
	s.sessions.Delete(sessionId)
	return &dto.SuccessFlagResponse{Success: true}, nil
}
