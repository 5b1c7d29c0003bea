// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
)

const (
	defaultAddr          = ":8080"
	defaultMaxUploadMB   = 10
	defaultWorkerCount   = 3
	defaultDownloadTries = 3
)

// R2Config addresses the Cloudflare R2 bucket holding recruiter uploads.
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Endpoint is the S3 compatible endpoint of the account.
func (r R2Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.AccountID)
}

type Config struct {
	Addr           string
	MaxUploadBytes int64
	CatalogPath    string

	GoogleAPIKey string
	GeminiModel  string

	DBURL         string
	RabbitMQURL   string
	R2            R2Config
	WorkerCount   int
	DownloadTries int

	Logger logger.Config
}

// Load reads .env files (missing files are ignored) and then the
// environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

func FromEnv() (*Config, error) {
	maxUploadMB, err := intEnv("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	workers, err := intEnv("WORKER_COUNT", defaultWorkerCount)
	if err != nil {
		return nil, err
	}
	tries, err := intEnv("R2_DOWNLOAD_ATTEMPTS", defaultDownloadTries)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:           stringEnv("ADDR", defaultAddr),
		MaxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		DBURL:          os.Getenv("DB_URL"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			Bucket:    os.Getenv("R2_BUCKET"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
		},
		WorkerCount:   workers,
		DownloadTries: tries,
		Logger: logger.Config{
			Level:        stringEnv("LOG_LEVEL", "info"),
			Format:       stringEnv("LOG_FORMAT", "json"),
			TimeFormat:   os.Getenv("LOG_TIME_FORMAT"),
			ReportCaller: os.Getenv("LOG_CALLER") == "true",
		},
	}, nil
}

// ValidateWorker reports every setting the queue worker needs but lacks.
func (c *Config) ValidateWorker() error {
	required := []struct {
		name  string
		value string
	}{
		{"DB_URL", c.DBURL},
		{"RABBITMQ_URL", c.RabbitMQURL},
		{"R2_ACCOUNT_ID", c.R2.AccountID},
		{"R2_BUCKET", c.R2.Bucket},
		{"R2_ACCESS_KEY", c.R2.AccessKey},
		{"R2_SECRET_KEY", c.R2.SecretKey},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("empty %s in environment", strings.Join(missing, ", "))
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.DownloadTries < 1 {
		return fmt.Errorf("R2_DOWNLOAD_ATTEMPTS must be positive, got %d", c.DownloadTries)
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
