package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"prados-legal-be/internal/constant"
	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/voice"
)

const audioFormat = "mp3"

type IVoiceService interface {
	TTS(ctx context.Context, req *dto.TTSRequest) (*dto.TTSResponse, error)
	VoiceChat(ctx context.Context, audio []byte, mimeType, conversationId string) (*dto.VoiceChatResponse, error)
	TextChat(ctx context.Context, req *dto.TextChatRequest) (*dto.TextChatResponse, error)
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type voiceService struct {
	runner       TurnRunner
	synthesizer  voice.Synthesizer
	maxTextChars int
	logger       logger.ILogger
}

func NewVoiceService(runner TurnRunner, synthesizer voice.Synthesizer, maxTextChars int, log logger.ILogger) IVoiceService {
	return &voiceService{
		runner:       runner,
		synthesizer:  synthesizer,
		maxTextChars: maxTextChars,
		logger:       log,
	}
}

func (s *voiceService) TTS(ctx context.Context, req *dto.TTSRequest) (*dto.TTSResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.EmptyInput()
	}
	if s.maxTextChars > 0 && utf8.RuneCountInString(text) > s.maxTextChars {
		return nil, apperror.TooLarge("El texto supera la longitud máxima permitida")
	}

	audio, err := s.synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	return &dto.TTSResponse{
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Format: audioFormat,
	}, nil
}

func (s *voiceService) VoiceChat(ctx context.Context, audio []byte, mimeType, conversationId string) (*dto.VoiceChatResponse, error) {
	if len(audio) == 0 {
		return nil, apperror.EmptyInput()
	}

	res, err := s.runner.Run(ctx, pipeline.TurnInput{
		ConversationID: conversationId,
		AudioBase64:    base64.StdEncoding.EncodeToString(audio),
		MimeHint:       mimeType,
		Channel:        constant.ChannelVoice,
	})
	if err != nil {
		return nil, err
	}

	return &dto.VoiceChatResponse{
		Success:         true,
		TranscribedText: res.TranscribedText,
		AiResponse:      res.ResponseText,
		AudioUrl:        AudioDataURL(res.PlaybackAudio),
		Format:          audioFormat,
		ConversationId:  res.ConversationID,
	}, nil
}

// TextChat answers a typed message. Audio is attached when synthesis works;
// the text answer is returned regardless.
func (s *voiceService) TextChat(ctx context.Context, req *dto.TextChatRequest) (*dto.TextChatResponse, error) {
	res, err := s.runner.Run(ctx, pipeline.TurnInput{
		ConversationID: req.ConversationId,
		Text:           req.Text,
		TextOnly:       true,
		Channel:        constant.ChannelText,
	})
	if err != nil {
		return nil, err
	}

	out := &dto.TextChatResponse{
		UserText:       res.UserText,
		AiResponse:     res.ResponseText,
		ConversationId: res.ConversationID,
	}

	audio, err := s.synthesize(ctx, res.ResponseText)
	if err != nil {
		s.logger.Warn("VOICE", "Text chat audio unavailable", map[string]interface{}{"error": err.Error()})
		return out, nil
	}
	url, format := AudioDataURL(audio), audioFormat
	out.AudioUrl = &url
	out.Format = &format
	return out, nil
}

func (s *voiceService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	res, err := s.runner.Run(ctx, pipeline.TurnInput{
		ConversationID: req.ConversationId,
		Text:           req.Message,
		TextOnly:       true,
		Channel:        constant.ChannelText,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Message:        res.UserText,
		Response:       res.ResponseText,
		ConversationId: res.ConversationID,
	}, nil
}

func (s *voiceService) synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.synthesizer == nil {
		return nil, apperror.Unavailable("El servicio de voz")
	}
	audio, err := s.synthesizer.Synthesize(ctx, text, voice.EncodingPlayback)
	if err != nil {
		s.logger.Error("VOICE", "Synthesis failed", map[string]interface{}{"error": err.Error()})
		if errors.Is(err, voice.ErrRateLimited) {
			return nil, apperror.RateLimited(err)
		}
		return nil, apperror.FromCollaborator("La síntesis de voz", apperror.KindUnavailable, err)
	}
	return audio, nil
}

// AudioDataURL embeds playback audio in a data url the browser can play.
func AudioDataURL(audio []byte) string {
	return "data:" + voice.EncodingPlayback.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(audio)
}
