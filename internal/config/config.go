package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "https://4d8lc0i0a1.execute-api.ap-south-1.amazonaws.com/dev"

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Capture  CaptureConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
}

type BackendConfig struct {
	BaseURL     string
	HTTPTimeout time.Duration
}

type SessionConfig struct {
	// LoginTransitionDelay keeps the confirmation message visible before the
	// gated workflows replace it.
	LoginTransitionDelay time.Duration
}

type CaptureConfig struct {
	FramePath string
}

type StorageConfig struct {
	DownloadPath string
}

type DatabaseConfig struct {
	HistoryDSN string
}

type LogConfig struct {
	Level  string // trace|debug|info|warn|error
	Format string // auto|console|json
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Env:             getEnv("ENV", "development"),
			MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 10485760),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "10s"),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "2m"),
		},
		Session: SessionConfig{
			LoginTransitionDelay: getEnvAsDuration("LOGIN_TRANSITION_DELAY", "1500ms"),
		},
		Capture: CaptureConfig{
			FramePath: getEnv("CAPTURE_FRAME_PATH", "./frame.jpg"),
		},
		Storage: StorageConfig{
			DownloadPath: getEnv("DOWNLOAD_PATH", "./downloads"),
		},
		Database: DatabaseConfig{
			HistoryDSN: getEnv("HISTORY_DSN", "file::memory:?cache=shared"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "auto"),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
