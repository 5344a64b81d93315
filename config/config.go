package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	UploadDir      string
	MatrixPath     string
	MaxFileSize    int64
	ConvertSecret  string
	ConvertBaseURL string
	ConvertTimeout time.Duration
	CORSOrigins    string
}

func Load() *Config {
	// Same convention as the original deployment: secrets live in a
	// local .env file during development. Missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MatrixPath:     getEnv("MATRIX_PATH", ""),
		MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 100*1024*1024),
		ConvertSecret:  getEnv("CONVERTAPI_SECRET", ""),
		ConvertBaseURL: getEnv("CONVERTAPI_BASE_URL", ""),
		ConvertTimeout: getEnvAsDuration("CONVERT_TIMEOUT", 5*time.Minute),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
	}
}

// CORSOriginList splits the comma-separated CORS_ORIGINS value into
// the individual origins the CORS layer expects.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
