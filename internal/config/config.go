package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"asistentas-gateway/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Chat    ChatConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SocketLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	AdminToken         string
}

type BackendConfig struct {
	BaseURL         string
	MetadataTimeout time.Duration // recent projects, cities, models, workflow, health
	QueryTimeout    time.Duration // chat and document query
	MetadataRPS     float64
	MetadataBurst   int
}

type ChatConfig struct {
	Brand          string
	ModelName      string
	SessionTTL     time.Duration
	SnapshotTTL    time.Duration
	RefreshTopic   string
	RefreshWorkers int // parallel background refreshes per instance
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SocketLogFilePath:  getEnv("SOCKET_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			AdminToken:         getEnv("ADMIN_TOKEN", ""),
		},
		Backend: BackendConfig{
			BaseURL:         getEnv("BACKEND_API_URL", "http://localhost:8000"),
			MetadataTimeout: getEnvAsDuration("METADATA_TIMEOUT", 10*time.Second),
			QueryTimeout:    getEnvAsDuration("QUERY_TIMEOUT", 120*time.Second),
			MetadataRPS:     getEnvAsFloat("METADATA_RPS", 20),
			MetadataBurst:   getEnvAsInt("METADATA_BURST", 40),
		},
		Chat: ChatConfig{
			Brand:          getEnv("BRAND", constant.BrandProjektuZvalgas),
			ModelName:      getEnv("MODEL_NAME", constant.DefaultModelName),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", time.Hour),
			SnapshotTTL:    getEnvAsDuration("SNAPSHOT_TTL", 24*time.Hour),
			RefreshTopic:   getEnv("REFRESH_TOPIC", "REFRESH_RECENT_PROJECTS"),
			RefreshWorkers: getEnvAsInt("REFRESH_WORKERS", 4),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "asistentas-gateway"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
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

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if d, err := time.ParseDuration(strValue); err == nil && d > 0 {
		return d
	}
	if secs := getEnvAsInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
