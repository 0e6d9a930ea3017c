package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens. Each token family is signed with its own secret.
	AccessTokenSecret  string
	RefreshTokenSecret string
	ActivationSecret   string
	AdminOTPSecret     string

	AccessTokenExpiry     time.Duration
	RefreshTokenExpiry    time.Duration
	ActivationTokenExpiry time.Duration
	OTPTokenExpiry        time.Duration

	// Admin
	AdminEmails string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// Optional integrations
	RedisURL            string
	SingleUseChallenges bool
	GoogleClientID      string
	SentryDSN           string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	LogLevel    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "projecthub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		ActivationSecret:   getEnv("ACTIVATION_SECRET", ""),
		AdminOTPSecret:     getEnv("ADMIN_JWT_SECRET_KEY", ""),

		AccessTokenExpiry:     parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
		RefreshTokenExpiry:    parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "72h"), 72*time.Hour),
		ActivationTokenExpiry: parseDuration(getEnv("ACTIVATION_TOKEN_EXPIRY", "5m"), 5*time.Minute),
		OTPTokenExpiry:        parseDuration(getEnv("OTP_TOKEN_EXPIRY", "10m"), 10*time.Minute),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@projecthub.local"),

		RedisURL:            getEnv("REDIS_URL", ""),
		SingleUseChallenges: getEnv("SINGLE_USE_CHALLENGES", "false") == "true",
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		SentryDSN:           getEnv("SENTRY_DSN", ""),

		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://127.0.0.1:5500"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// MissingSecrets returns the names of required settings that are unset.
// Production also needs SMTP, since activation codes and OTPs must not
// fall back to the log.
func (c *Config) MissingSecrets() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"ACCESS_TOKEN_SECRET", c.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", c.RefreshTokenSecret},
		{"ACTIVATION_SECRET", c.ActivationSecret},
		{"ADMIN_JWT_SECRET_KEY", c.AdminOTPSecret},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if c.DBDriver == "postgres" && c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.IsProduction() && c.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	return missing
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range parseCSV(c.AdminEmails) {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
