package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	BackendAppSync  = "appsync"
	BackendPostgres = "postgres"

	TransportSES  = "ses"
	TransportSMTP = "smtp"

	PolicyLegacy = "legacy"
	PolicyStrict = "strict"

	DefaultMailSource    = "Watch Exchanger <notifications@watchexchanger.com>"
	DefaultNotifySubject = "Your subscription expires tomorrow"
	DefaultNotifyBody    = "Hello,\n\nOne of your Watch Exchanger subscriptions expires within the next 24 hours. Sign in to review or renew it.\n\nWatch Exchanger"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DirectoryBackend  string `validate:"oneof=appsync postgres"`
	GraphQLEndpoint   string `validate:"required_if=DirectoryBackend appsync"`
	AWSRegion         string `validate:"required"`
	SigningService    string `validate:"required"`
	DatabaseURL       string `validate:"required_if=DirectoryBackend postgres"`
	DirectoryPageSize int    `validate:"gte=1,lte=1000"`

	MailTransport string `validate:"oneof=ses smtp"`
	MailSource    string `validate:"required"`
	SMTPHost      string `validate:"required_if=MailTransport smtp"`
	SMTPPort      int    `validate:"gte=1,lte=65535"`
	SMTPUser      string
	SMTPPass      string

	NotifySubject string `validate:"required"`
	NotifyBody    string `validate:"required"`
	BatchSize     int    `validate:"gte=1,lte=100"`
	ExpiryPolicy  string `validate:"oneof=legacy strict"`

	LogLevel    string
	Environment string
	CronSpec    string        `validate:"required"`
	JobTimeout  time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		DirectoryBackend: strings.ToLower(getEnv("DIRECTORY_BACKEND", BackendAppSync)),
		GraphQLEndpoint:  getEnv("API_WATCHEXCHANGER_GRAPHQLAPIENDPOINTOUTPUT", os.Getenv("GRAPHQL_ENDPOINT")),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		SigningService:   getEnv("APPSYNC_SIGNING_SERVICE", "appsync"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MailTransport:    strings.ToLower(getEnv("MAIL_TRANSPORT", TransportSES)),
		MailSource:       getEnv("MAIL_SOURCE", DefaultMailSource),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		NotifySubject:    getEnv("NOTIFY_SUBJECT", DefaultNotifySubject),
		NotifyBody:       getEnv("NOTIFY_BODY", DefaultNotifyBody),
		ExpiryPolicy:     strings.ToLower(getEnv("EXPIRY_POLICY", PolicyLegacy)),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:      strings.ToLower(getEnv("ENVIRONMENT", "development")),
		CronSpec:         getEnv("CRON_SPEC", "0 9 * * *"), // Default: 9 AM daily
	}

	var err error
	if cfg.DirectoryPageSize, err = getEnvInt("DIRECTORY_PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = getEnvInt("BATCH_SIZE", 100); err != nil {
		return nil, err
	}

	if raw := os.Getenv("JOB_TIMEOUT"); raw != "" {
		cfg.JobTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: JOB_TIMEOUT: %v", ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return v, nil
}
