package dto

type TTSRequest struct {
	Text string `json:"text" validate:"required"`
}

type TTSResponse struct {
	Audio  string `json:"audio"`
	Format string `json:"format"`
}

type TextChatRequest struct {
	Text           string `json:"text" validate:"required"`
	ConversationId string `json:"conversation_id"`
}

type TextChatResponse struct {
	UserText       string  `json:"user_text"`
	AiResponse     string  `json:"ai_response"`
	AudioUrl       *string `json:"audio_url"`
	Format         *string `json:"format"`
	ConversationId string  `json:"conversation_id"`
}

type VoiceChatResponse struct {
	Success         bool   `json:"success"`
	TranscribedText string `json:"transcribed_text"`
	AiResponse      string `json:"ai_response"`
	AudioUrl        string `json:"audio_url"`
	Format          string `json:"format"`
	ConversationId  string `json:"conversation_id"`
}

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationId string `json:"conversation_id"`
}

type ChatResponse struct {
	Message        string `json:"message"`
	Response       string `json:"response"`
	ConversationId string `json:"conversation_id"`
}
