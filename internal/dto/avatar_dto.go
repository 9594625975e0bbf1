package dto

import "prados-legal-be/pkg/avatar"

type AvatarSpeakRequest struct {
	SessionId      string `json:"session_id" validate:"required"`
	AudioBase64    string `json:"audio_base64" validate:"required"`
	MimeType       string `json:"mime_type"`
	ConversationId string `json:"conversation_id"`
}

type AvatarSpeakTextRequest struct {
	SessionId      string `json:"session_id" validate:"required"`
	Text           string `json:"text" validate:"required"`
	ConversationId string `json:"conversation_id"`
}

type AvatarInterruptRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

// AvatarSpeakResponse is the speak envelope. TranscribedText is empty for
// text turns.
type AvatarSpeakResponse struct {
	Success         bool   `json:"success"`
	TranscribedText string `json:"transcribed_text,omitempty"`
	AiResponse      string `json:"ai_response"`
	AudioUrl        string `json:"audio_url"`
	ConversationId  string `json:"conversation_id"`
	LipSyncQueued   bool   `json:"lipsync_queued"`
}

type AvatarSessionResponse struct {
	Success bool            `json:"success"`
	Session *avatar.Session `json:"session"`
}

type SuccessFlagResponse struct {
	Success bool `json:"success"`
}
