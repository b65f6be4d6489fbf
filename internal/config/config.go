// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Registry    RegistryConfig
	Pinning     PinningConfig
	AWS         AWSConfig
	Inference   InferenceConfig
	Access      AccessConfig
	Payment     PaymentConfig
	Email       EmailConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

// RegistryConfig points at the origin registry, the external authority
// doing on-chain registration and access bookkeeping. An empty BaseURL
// puts the client in simulated mode.
type RegistryConfig struct {
	BaseURL        string
	APIKey         string
	ChainID        int64
	PaymentToken   string
	RequestTimeout int // in seconds
	RetryDelay     int // in seconds, single retry after rate limiting
}

// PinningConfig drives IPFS pinning through Pinata.
type PinningConfig struct {
	PinataBaseURL string
	PinataJWT     string
	GatewayURL    string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type InferenceConfig struct {
	BaseURL        string
	APIToken       string
	ImageModel     string
	CategoryModel  string
	RequestTimeout int // in seconds
	RetryDelay     int // in seconds
}

// AccessConfig names the access-gate policy. FailOpen keeps the platform
// browsable when the registry is degraded; decisions made that way carry
// an explicit fallback source.
type AccessConfig struct {
	CacheTTL  int // in seconds
	CacheSize int
	FailOpen  bool
}

type PaymentConfig struct {
	PlatformFeePercent float64
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "forkyoudaddy"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		Registry: RegistryConfig{
			BaseURL:        getEnv("REGISTRY_BASE_URL", ""),
			APIKey:         getEnv("REGISTRY_API_KEY", ""),
			ChainID:        int64(getEnvAsInt("REGISTRY_CHAIN_ID", 84532)),
			PaymentToken:   getEnv("REGISTRY_PAYMENT_TOKEN", "0x0000000000000000000000000000000000000000"),
			RequestTimeout: getEnvAsInt("REGISTRY_REQUEST_TIMEOUT", 15),
			RetryDelay:     getEnvAsInt("REGISTRY_RETRY_DELAY", 2),
		},
		Pinning: PinningConfig{
			PinataBaseURL: getEnv("PINATA_BASE_URL", "https://api.pinata.cloud"),
			PinataJWT:     getEnv("PINATA_JWT", ""),
			GatewayURL:    getEnv("IPFS_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "forkyoudaddy-mirror"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Inference: InferenceConfig{
			BaseURL:        getEnv("INFERENCE_BASE_URL", "https://api-inference.huggingface.co"),
			APIToken:       getEnv("INFERENCE_API_TOKEN", ""),
			ImageModel:     getEnv("INFERENCE_IMAGE_MODEL", "stabilityai/stable-diffusion-xl-base-1.0"),
			CategoryModel:  getEnv("INFERENCE_CATEGORY_MODEL", "facebook/bart-large-mnli"),
			RequestTimeout: getEnvAsInt("INFERENCE_REQUEST_TIMEOUT", 60),
			RetryDelay:     getEnvAsInt("INFERENCE_RETRY_DELAY", 2),
		},
		Access: AccessConfig{
			CacheTTL:  getEnvAsInt("ACCESS_CACHE_TTL", 60),
			CacheSize: getEnvAsInt("ACCESS_CACHE_SIZE", 4096),
			FailOpen:  getEnvAsBool("ACCESS_FAIL_OPEN", true),
		},
		Payment: PaymentConfig{
			PlatformFeePercent: getEnvAsFloat("PLATFORM_FEE_PERCENT", 5.0),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@forkyoudaddy.xyz"),
			FromName:     getEnv("FROM_NAME", "ForkYouDaddy"),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Payment.PlatformFeePercent < 0 || c.Payment.PlatformFeePercent > 100 {
		return fmt.Errorf("platform fee percent must be between 0 and 100")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
