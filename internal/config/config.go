package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Voice    VoiceConfig
	Avatar   AvatarConfig
	Limits   LimitsConfig
	Rag      RagConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	IngestTopic        string
	InstanceID         string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	Anthropic    string
	ElevenLabs   string
	LiveAvatar   string
}

type AIConfig struct {
	LLMProvider   string // forces a backend: gemini, openai, anthropic, ollama
	LLMModel      string
	OllamaBaseURL string
	MaxTokens     int
	MaxSentences  int
	Timeout       time.Duration
}

type VoiceConfig struct {
	VoiceID    string
	ModelID    string
	STTModelID string
	Timeout    time.Duration
}

type AvatarConfig struct {
	AvatarID          string
	BaseURL           string
	PushTimeout       time.Duration
	KeepAliveInterval time.Duration
}

type LimitsConfig struct {
	MaxAudioBytes  int
	MaxTextChars   int
	MaxUploadBytes int
}

type RagConfig struct {
	OfficialTitlePrefix  string
	OfficialCharCap      int
	SupplementaryTopK    int
	SupplementaryCharCap int
	TotalCharCap         int
	// SeedOnStart loads the base corpus into an empty store and reseeds the
	// official document at boot.
	SeedOnStart bool
}

type SessionConfig struct {
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	CorpusCacheTTL time.Duration // how long a knowledge snapshot is reused
}

var defaultCorsOrigins = []string{
	"https://legbotdev.pradosdeparaiso.com.pe",
	"https://frontendAsisLegal.onrender.com",
	"https://frontendasislegal.onrender.com",
	"https://verdant-paletas-4473ea.netlify.app",
	"http://localhost:3000",
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", strings.Join(defaultCorsOrigins, ",")),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			IngestTopic:        getEnv("INGEST_TOPIC", "uploads.ingest"),
			InstanceID:         getEnv("INSTANCE_ID", hostname()),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", "sqlite:prados_legal.db"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", getEnv("GOOGLE_GEMINI_API_KEY", "")),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			ElevenLabs:   getEnv("ELEVENLABS_API_KEY", ""),
			LiveAvatar:   getEnv("LIVEAVATAR_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", ""),
			LLMModel:      getEnv("LLM_MODEL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", ""),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 160),
			MaxSentences:  getEnvAsInt("RESPONSE_MAX_SENTENCES", 5),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Voice: VoiceConfig{
			VoiceID:    getEnv("ELEVENLABS_VOICE_ID", "saqk76H0L3GCnuHtLDw6"),
			ModelID:    getEnv("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
			STTModelID: getEnv("ELEVENLABS_STT_MODEL_ID", "scribe_v1"),
			Timeout:    getEnvAsDuration("VOICE_TIMEOUT", 30*time.Second),
		},
		Avatar: AvatarConfig{
			AvatarID:          getEnv("LIVEAVATAR_AVATAR_ID", ""),
			BaseURL:           getEnv("LIVEAVATAR_BASE_URL", "https://api.liveavatar.com/v1"),
			PushTimeout:       getEnvAsDuration("AVATAR_PUSH_TIMEOUT", 10*time.Second),
			KeepAliveInterval: getEnvAsDuration("AVATAR_KEEPALIVE_INTERVAL", 60*time.Second),
		},
		Limits: LimitsConfig{
			MaxAudioBytes:  getEnvAsInt("MAX_AUDIO_BYTES", 5*1024*1024),
			MaxTextChars:   getEnvAsInt("MAX_TEXT_CHARS", 2000),
			MaxUploadBytes: getEnvAsInt("MAX_UPLOAD_BYTES", 5*1024*1024),
		},
		Rag: RagConfig{
			OfficialTitlePrefix:  getEnv("RAG_OFFICIAL_TITLE_PREFIX", "Condiciones Legales de Prados de Paraíso"),
			OfficialCharCap:      getEnvAsInt("RAG_OFFICIAL_CHAR_CAP", 1800),
			SupplementaryTopK:    getEnvAsInt("RAG_TOP_K", 3),
			SupplementaryCharCap: getEnvAsInt("RAG_SUPPLEMENTARY_CHAR_CAP", 350),
			TotalCharCap:         getEnvAsInt("RAG_TOTAL_CHAR_CAP", 4000),
			SeedOnStart:          getEnv("RAG_SEED_ON_START", "true") == "true",
		},
		Session: SessionConfig{
			IdleTimeout:    getEnvAsDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
			SweepInterval:  getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
			CorpusCacheTTL: getEnvAsDuration("CORPUS_CACHE_TTL", 30*time.Second),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "local"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
