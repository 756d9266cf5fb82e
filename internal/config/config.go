// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig
	SessionStore SessionStoreConfig
	Redis        RedisConfig
	LLM          LLMConfig
	Embedding    EmbeddingConfig
	Vector       VectorConfig
	TTS          TTSConfig
	ASR          ASRConfig
	Geocoding    GeocodingConfig
	Timeout      TimeoutConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string

	// CORSAllowedOrigins overrides the default development origins when set.
	CORSAllowedOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionStoreConfig holds session store configuration.
type SessionStoreConfig struct {
	Type            string
	TTL             time.Duration
	MaxSessions     int
	CleanupInterval time.Duration
}

// RedisConfig holds Redis connection configuration for the redis session store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LLMConfig holds DashScope (Qwen) chat model configuration.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxTurns    int
}

// EmbeddingConfig holds the embedding model configuration.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// VectorConfig holds the vector document store configuration.
type VectorConfig struct {
	Type       string
	MongoURI   string
	Database   string
	Collection string
}

// TTSConfig holds speech synthesis configuration.
type TTSConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

// ASRConfig holds realtime speech recognition configuration.
type ASRConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	SampleRate int
	Language   string
}

// GeocodingConfig holds geocoding configuration.
type GeocodingConfig struct {
	BaseURL      string
	CountryCodes string
	Timeout      time.Duration
}

// TimeoutConfig holds the silence re-prompt timing.
type TimeoutConfig struct {
	UserResponse  time.Duration
	CheckInterval time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8000),
			GinMode:            getEnv("GIN_MODE", "debug"),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		},
		SessionStore: SessionStoreConfig{
			Type:            getEnv("SESSION_STORE_TYPE", "memory"),
			TTL:             time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
			MaxSessions:     getEnvAsInt("SESSION_MAX_SESSIONS", 1000),
			CleanupInterval: time.Duration(getEnvAsInt("SESSION_CLEANUP_INTERVAL_SECONDS", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("DASHSCOPE_API_KEY", ""),
			BaseURL:     getEnv("QWEN_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
			Model:       getEnv("QWEN_MODEL", "qwen-plus"),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTurns:    getEnvAsInt("MAX_CONVERSATION_TURNS", 3),
		},
		Embedding: EmbeddingConfig{
			APIKey:  getEnv("EMBEDDING_API_KEY", ""),
			BaseURL: getEnv("EMBEDDING_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
			Model:   getEnv("EMBEDDING_MODEL", "text-embedding-v4"),
		},
		Vector: VectorConfig{
			Type:       getEnv("VECTOR_STORE_TYPE", "memory"),
			MongoURI:   getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGODB_DATABASE", "dataplug"),
			Collection: getEnv("MONGODB_COLLECTION", "user_data"),
		},
		TTS: TTSConfig{
			APIKey:  getEnv("TTS_API_KEY", ""),
			BaseURL: getEnv("TTS_BASE_URL", "https://dashscope.aliyuncs.com/api/v1/services/aigc/multimodal-generation/generation"),
			Model:   getEnv("TTS_MODEL", "qwen-tts-flash"),
			Voice:   getEnv("TTS_VOICE", "Cherry"),
		},
		ASR: ASRConfig{
			APIKey:     getEnv("AUDIO_API_KEY", ""),
			BaseURL:    getEnv("AUDIO_BASE_URL", "wss://dashscope.aliyuncs.com/api-ws/v1/realtime"),
			Model:      getEnv("AUDIO_MODEL", "qwen3-asr-flash-realtime"),
			SampleRate: getEnvAsInt("AUDIO_SAMPLE_RATE", 16000),
			Language:   getEnv("AUDIO_LANGUAGE", "ja"),
		},
		Geocoding: GeocodingConfig{
			BaseURL:      getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org/search"),
			CountryCodes: getEnv("GEOCODING_COUNTRY_CODES", "jp"),
			Timeout:      time.Duration(getEnvAsInt("GEOCODING_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Timeout: TimeoutConfig{
			UserResponse:  time.Duration(getEnvAsInt("USER_RESPONSE_TIMEOUT_SECONDS", 180)) * time.Second,
			CheckInterval: time.Duration(getEnvAsInt("TIMEOUT_CHECK_INTERVAL_SECONDS", 10)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// TTS and ASR fall back to the main DashScope key when unset.
	if cfg.TTS.APIKey == "" {
		cfg.TTS.APIKey = cfg.LLM.APIKey
	}
	if cfg.ASR.APIKey == "" {
		cfg.ASR.APIKey = cfg.LLM.APIKey
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = cfg.LLM.APIKey
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSlice gets a comma-separated environment variable. Unset or empty
// yields nil.
func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvAsFloat gets an environment variable as a float with a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
