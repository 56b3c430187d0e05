package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Payment  PaymentConfig
	S3       S3Config
	OTP      OTPConfig
	Cart     CartConfig
	Cron     CronConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	BaseURL     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PaymentConfig struct {
	Zarinpal ZarinpalConfig
}

type ZarinpalConfig struct {
	MerchantID     string
	BaseURL        string
	PaymentPageURL string
	CallbackURL    string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // S3-compatible object storage endpoint, empty for AWS
	BaseURL         string // CDN or direct URL prefix for stored objects
}

type OTPConfig struct {
	CodeLength    int
	Expiry        time.Duration
	SendLimit     int           // max sends per phone per window
	SendWindow    time.Duration // rate-limit window for sends
	VerifyLimit   int           // max failed verifications per phone per window
	VerifyWindow  time.Duration
}

type CartConfig struct {
	SessionCookieName string
	SessionTTL        time.Duration
}

type CronConfig struct {
	FeaturedSpec  string // cron spec for regenerating the featured selection
	LuckySpec     string // cron spec for regenerating the lucky discount selection
	FeaturedCount int
	LuckyCount    int
	Secret        string // guards the manual trigger endpoints
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			BaseURL:     getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "shopyar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Payment: PaymentConfig{
			Zarinpal: ZarinpalConfig{
				MerchantID:     getEnv("ZARINPAL_MERCHANT_ID", ""),
				BaseURL:        getEnv("ZARINPAL_BASE_URL", "https://sandbox.zarinpal.com/pg/v4/payment"),
				PaymentPageURL: getEnv("ZARINPAL_PAYMENT_PAGE_URL", "https://sandbox.zarinpal.com/pg/StartPay"),
				CallbackURL:    getEnv("ZARINPAL_CALLBACK_URL", "http://localhost:8080/api/v1/payment/callback"),
			},
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "default"),
			Bucket:          getEnv("S3_BUCKET", "shopyar-uploads"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			BaseURL:         getEnv("S3_BASE_URL", ""),
		},
		OTP: OTPConfig{
			CodeLength:   parseInt(getEnv("OTP_CODE_LENGTH", "5"), 5),
			Expiry:       parseDuration(getEnv("OTP_EXPIRY", "5m"), 5*time.Minute),
			SendLimit:    parseInt(getEnv("OTP_SEND_LIMIT", "3"), 3),
			SendWindow:   parseDuration(getEnv("OTP_SEND_WINDOW", "10m"), 10*time.Minute),
			VerifyLimit:  parseInt(getEnv("OTP_VERIFY_LIMIT", "5"), 5),
			VerifyWindow: parseDuration(getEnv("OTP_VERIFY_WINDOW", "10m"), 10*time.Minute),
		},
		Cart: CartConfig{
			SessionCookieName: getEnv("CART_SESSION_COOKIE", "cart_session"),
			SessionTTL:        parseDuration(getEnv("CART_SESSION_TTL", "720h"), 720*time.Hour),
		},
		Cron: CronConfig{
			FeaturedSpec:  getEnv("CRON_FEATURED_SPEC", "0 3 * * *"),
			LuckySpec:     getEnv("CRON_LUCKY_SPEC", "0 0 * * *"),
			FeaturedCount: parseInt(getEnv("CRON_FEATURED_COUNT", "8"), 8),
			LuckyCount:    parseInt(getEnv("CRON_LUCKY_COUNT", "4"), 4),
			Secret:        getEnv("CRON_SECRET", ""),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid number %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
