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
	App     AppConfig
	Content ContentConfig
	Session SessionConfig
	Chat    ChatConfig
	Ai      AIConfig
	Keys    APIKeys
	Site    SiteConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TranscriptLogPath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	BodyLimit          int
}

type ContentConfig struct {
	Root           string
	Backend        string // "filesystem" or "postgres"
	CacheTTL       time.Duration
	StrictOrdering bool
	DBConnection   string
}

type SessionConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type ChatConfig struct {
	VisualMatching     bool
	MaxAttachmentBytes int
}

type AIConfig struct {
	LLMProvider   string // "gemini" or "ollama"
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string
	Timeout       time.Duration
}

type APIKeys struct {
	GoogleGemini string
	JWTSecret    string
}

type SiteConfig struct {
	AuthorName string
	AuthorURL  string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TranscriptLogPath:  getEnv("TRANSCRIPT_LOG_PATH", "logs/transcript.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			BodyLimit:          getEnvAsInt("BODY_LIMIT_BYTES", 10*1024*1024),
		},
		Content: ContentConfig{
			Root:           getEnv("CONTENT_ROOT", "."),
			Backend:        getEnv("CONTENT_BACKEND", "filesystem"),
			CacheTTL:       getEnvAsDuration("CONTENT_CACHE_TTL", 10*time.Minute),
			StrictOrdering: getEnvAsBool("CONTENT_STRICT_ORDERING", false),
			DBConnection:   getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
			TTL:     getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Chat: ChatConfig{
			VisualMatching:     getEnvAsBool("VISUAL_MATCHING", true),
			MaxAttachmentBytes: getEnvAsInt("MAX_ATTACHMENT_BYTES", 5*1024*1024),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Keys: APIKeys{
			GoogleGemini: ResolveSecret(getEnv("SECRETS_FILE", "secrets.env"), "GOOGLE_API_KEY"),
			JWTSecret:    getEnv("JWT_SECRET", ""),
		},
		Site: SiteConfig{
			AuthorName: getEnv("SITE_AUTHOR_NAME", "Lê Đắc Chiến"),
			AuthorURL:  getEnv("SITE_AUTHOR_URL", "https://ledacchien.com"),
		},
	}
}

// ResolveSecret looks the key up in the secrets file first and falls back to
// the process environment. A missing or unreadable secrets file is not an error.
func ResolveSecret(secretsFile, key string) string {
	if secretsFile != "" {
		if values, err := godotenv.Read(secretsFile); err == nil {
			if v := strings.TrimSpace(values[key]); v != "" {
				return v
			}
		}
	}
	return strings.TrimSpace(os.Getenv(key))
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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
