package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Late struct {
	BaseURL   string `envconfig:"LATE_API_URL" default:"https://getlate.dev/api/v1"`
	APIKey    string `envconfig:"LATE_API_KEY"`
	ProfileID string `envconfig:"LATE_PROFILE_ID"`
}

type Storage struct {
	Endpoint  string `envconfig:"STORAGE_S3_ENDPOINT"`
	Region    string `envconfig:"STORAGE_S3_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"STORAGE_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"STORAGE_S3_SECRET_KEY"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"post-images"`
	PublicURL string `envconfig:"STORAGE_PUBLIC_URL"`
}

type Gemini struct {
	APIKey      string        `envconfig:"GEMINI_API_KEY"`
	Model       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	MaxAttempts int           `envconfig:"GEMINI_MAX_ATTEMPTS" default:"3"`
	RetryDelay  time.Duration `envconfig:"GEMINI_RETRY_DELAY" default:"2s"`
	Timeout     time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
}

type Mail struct {
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	From         string `envconfig:"NOTIFY_EMAIL_FROM"`
	To           string `envconfig:"NOTIFY_EMAIL_TO"`
}

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"dev"`
	Port          string `envconfig:"PORT" default:"3000"`
	MetricsAddr   string `envconfig:"METRICS_ADDR" default:":9091"`
	PostgresURI   string `envconfig:"POSTGRES_URI"`
	RedisURI      string `envconfig:"REDIS_URI" default:"localhost:6379"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	SecretKey     string `envconfig:"SECRET_KEY"`
	CookieName    string `envconfig:"COOKIE_NAME" default:"awareness_session"`

	Late    Late    `envconfig:""`
	Storage Storage `envconfig:""`
	Gemini  Gemini  `envconfig:""`
	Mail    Mail    `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
