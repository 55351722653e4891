package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string

	Log      string
	LogLevel string
	Env      string // dev|prod

	// Rotated JSON log file; sizes in MB, age in days.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailTimeout  time.Duration

	BaseURL          string
	PasswordResetTTL time.Duration

	UploadDir   string
	UploadMaxMB int64
	PagesDir    string

	GuardFallback string
	GuardLanding  string

	CORSOrigins []string
}

// LoadConfig reads .env (if present), then the environment, and fills in defaults.
// It does not log so that it stays independent of the logger package.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	sessionTTL, err := time.ParseDuration(def(os.Getenv("SESSION_TTL"), "720h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	resetTTL, err := time.ParseDuration(def(os.Getenv("PASSWORD_RESET_TTL"), "24h"))
	if err != nil {
		return nil, fmt.Errorf("PASSWORD_RESET_TTL: %w", err)
	}
	mailTimeout, err := time.ParseDuration(def(os.Getenv("MAIL_TIMEOUT"), "15s"))
	if err != nil {
		return nil, fmt.Errorf("MAIL_TIMEOUT: %w", err)
	}
	uploadMax, err := strconv.ParseInt(def(os.Getenv("UPLOAD_MAX_MB"), "50"), 10, 64)
	if err != nil || uploadMax <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_MB must be a positive integer")
	}

	logSize, err := positiveInt("LOG_MAX_SIZE_MB", def(os.Getenv("LOG_MAX_SIZE_MB"), "20"))
	if err != nil {
		return nil, err
	}
	logBackups, err := positiveInt("LOG_MAX_BACKUPS", def(os.Getenv("LOG_MAX_BACKUPS"), "10"))
	if err != nil {
		return nil, err
	}
	logAge, err := positiveInt("LOG_MAX_AGE_DAYS", def(os.Getenv("LOG_MAX_AGE_DAYS"), "30"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    sessionTTL,
		SessionCookie: def(os.Getenv("SESSION_COOKIE"), "session"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		LogFile:       def(os.Getenv("LOG_FILE"), "logs/minbar.log"),
		LogMaxSizeMB:  logSize,
		LogMaxBackups: logBackups,
		LogMaxAgeDays: logAge,

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     def(os.Getenv("MAIL_FROM"), os.Getenv("SMTP_USER")),
		MailTimeout:  mailTimeout,

		BaseURL:          strings.TrimRight(def(os.Getenv("BASE_URL"), "http://localhost:3000"), "/"),
		PasswordResetTTL: resetTTL,

		UploadDir:   def(os.Getenv("UPLOAD_DIR"), "uploads"),
		UploadMaxMB: uploadMax,
		PagesDir:    def(os.Getenv("PAGES_DIR"), "web"),

		GuardFallback: def(os.Getenv("GUARD_FALLBACK"), "/"),
		GuardLanding:  def(os.Getenv("GUARD_LANDING"), "/admin"),

		CORSOrigins: splitList(def(os.Getenv("CORS_ORIGINS"), "*")),
	}

	return cfg, nil
}

func positiveInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate returns warnings plus a fatal error when the config is unusable.
func (c *Config) Validate() (warnings []string, err error) {
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// Without a secret anyone could mint a session.
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if len(c.JWTSecret) < 32 {
		warnings = append(warnings, "JWT_SECRET is shorter than 32 bytes")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, password reset emails will fail")
	}

	if c.Env == "prod" && strings.HasPrefix(c.BaseURL, "http://localhost") {
		warnings = append(warnings, "BASE_URL points to localhost in prod")
	}

	return warnings, nil
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// GetDSN returns the full DSN including the password.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe is GetDSN without the password, for logs.
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
