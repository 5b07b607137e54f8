package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"celebstyle-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App         AppConfig
	Database    *database.DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Worker      WorkerConfig
	RateLimit   RateLimitConfig
	ExternalAPI ExternalAPIConfig
	Mail        MailConfig
	Admin       AdminSeedConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	LogLevel       string
	PublicOrigin   string        // https://celebstyle.example, dùng cho canonical URL / sitemap
	RequestTimeout time.Duration // deadline cho mỗi HTTP request
	CORSOrigins    []string
}

type RedisConfig struct {
	Host        string
	Password    string
	DB          int
	CachePrefix string
	CacheTTL    time.Duration
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// StorageConfig cho Asset Store (S3-compatible: MinIO local, Supabase Storage S3 endpoint)
type StorageConfig struct {
	Endpoint      string // localhost:9000
	AccessKey     string
	SecretKey     string
	Bucket        string // celebstyle-media
	UseSSL        bool
	PublicBaseURL string // base URL public của bucket; rỗng thì build từ endpoint
	MaxUploadSize int64  // bytes
}

type WorkerConfig struct {
	Concurrency       int
	ReconcileCron     string // cron cho job recompute outfit_count
	ShutdownTimeout   time.Duration
	MaxRetry          int
	AssetCleanupDelay time.Duration
	ThumbnailMaxRetry int
}

type RateLimitConfig struct {
	LoginRPS        float64
	LoginBurst      int
	NewsletterRPS   float64
	NewsletterBurst int
}

// ExternalAPIConfig: key website gửi kèm header X-API-Key khi gọi public API (rỗng = tắt)
type ExternalAPIConfig struct {
	WebsiteAPIKey string
}

// MailConfig SMTP cho welcome email của newsletter; Host rỗng = không gửi
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// AdminSeedConfig dùng bởi cmd/migrate để tạo admin đầu tiên
type AdminSeedConfig struct {
	Email    string
	Password string
	Name     string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "CelebStyle API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			PublicOrigin:   strings.TrimRight(getEnv("PUBLIC_ORIGIN", "http://localhost:3000"), "/"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			CachePrefix: getEnv("REDIS_CACHE_PREFIX", "celebstyle:"),
			CacheTTL:    getEnvDuration("REDIS_CACHE_TTL", 15*time.Minute),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:            getEnv("JWT_ISSUER", "celebstyle"),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("STORAGE_BUCKET", "celebstyle-media"),
			UseSSL:        getEnvBool("STORAGE_USE_SSL", false),
			PublicBaseURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			MaxUploadSize: int64(getEnvInt("STORAGE_MAX_UPLOAD_MB", 5)) * 1024 * 1024,
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvInt("WORKER_CONCURRENCY", 10),
			ReconcileCron:     getEnv("WORKER_RECONCILE_CRON", "0 3 * * *"),
			ShutdownTimeout:   getEnvDuration("WORKER_SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxRetry:          getEnvInt("WORKER_MAX_RETRY", 5),
			AssetCleanupDelay: getEnvDuration("WORKER_ASSET_CLEANUP_DELAY", 0),
			ThumbnailMaxRetry: getEnvInt("WORKER_THUMBNAIL_MAX_RETRY", 3),
		},
		RateLimit: RateLimitConfig{
			LoginRPS:        getEnvFloat("RATE_LIMIT_LOGIN_RPS", 0.2),
			LoginBurst:      getEnvInt("RATE_LIMIT_LOGIN_BURST", 5),
			NewsletterRPS:   getEnvFloat("RATE_LIMIT_NEWSLETTER_RPS", 0.5),
			NewsletterBurst: getEnvInt("RATE_LIMIT_NEWSLETTER_BURST", 3),
		},
		ExternalAPI: ExternalAPIConfig{
			WebsiteAPIKey: getEnv("WEBSITE_API_KEY", ""),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "1025"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "CelebStyle <newsletter@celebstyle.dev>"),
		},
		Admin: AdminSeedConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.App.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(c.App.PublicOrigin, "http://") && !strings.HasPrefix(c.App.PublicOrigin, "https://") {
		return fmt.Errorf("PUBLIC_ORIGIN must be an absolute http(s) URL")
	}

	// Production environment phải có secrets
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret || len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be set (>= 32 chars) in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Storage.AccessKey == "minioadmin" {
			return fmt.Errorf("STORAGE_ACCESS_KEY must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
