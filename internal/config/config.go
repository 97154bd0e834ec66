package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Concierge ConciergeConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	TurnLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini  string
	HuggingFace   string
	DocumentToken string // HMAC secret for signed document links
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

// ConciergeConfig holds the pipeline tuning knobs. Defaults match the
// corpus the profile was indexed with and should rarely need changing.
type ConciergeConfig struct {
	OwnerName          string
	OwnerEmail         string
	OwnerGitHub        string
	ResumeDocumentID   string
	DocumentsDir       string
	SimilarityFloor    float64 // minimum cosine similarity for a retrieval candidate
	GroundingFloor     float64 // minimum top score to consider an answer grounded
	TopK               int     // chunks passed to generation
	CandidateCap       int     // hard cap on candidates fetched from the store
	LinkTTLMinutes     int
	LiveDataTimeoutSec int
	TelemetryTopic     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			TurnLogFilePath:    getEnv("TURN_LOG_FILE_PATH", "turns.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Profile Concierge"),
		},
		Keys: APIKeys{
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:   getEnv("HF_API_KEY", ""),
			DocumentToken: getEnv("DOCUMENT_TOKEN_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Concierge: ConciergeConfig{
			OwnerName:          getEnv("OWNER_NAME", "the owner"),
			OwnerEmail:         getEnv("OWNER_EMAIL", ""),
			OwnerGitHub:        getEnv("OWNER_GITHUB_USERNAME", ""),
			ResumeDocumentID:   getEnv("RESUME_DOCUMENT_ID", "resume"),
			DocumentsDir:       getEnv("DOCUMENTS_DIR", "./documents"),
			SimilarityFloor:    getEnvAsFloat("SIMILARITY_FLOOR", 0.60),
			GroundingFloor:     getEnvAsFloat("GROUNDING_FLOOR", 0.45),
			TopK:               getEnvAsInt("RETRIEVAL_TOP_K", 4),
			CandidateCap:       getEnvAsInt("RETRIEVAL_CANDIDATE_CAP", 500),
			LinkTTLMinutes:     getEnvAsInt("DOCUMENT_LINK_TTL_MINUTES", 15),
			LiveDataTimeoutSec: getEnvAsInt("LIVE_DATA_TIMEOUT_SECONDS", 4),
			TelemetryTopic:     getEnv("TELEMETRY_TOPIC_NAME", "RECORD_INTERACTION"),
		},
	}
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
