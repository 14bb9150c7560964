package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	StaticDir string

	DatabaseDriver string
	DatabaseURL    string
	DatabasePath   string

	FirebaseCredentials string
	GoogleProjectID     string
	GooglePubSubTopic   string
	GoogleCredentials   string

	WorkerAuthToken string

	EmailEnabled  bool
	EmailSender   string
	EmailPassword string
	EmailReceiver string
	SMTPServer    string
	SMTPPort      int

	// Client side (pushctl)
	BackendURL   string
	PushVapidKey string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	smtpPort := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			smtpPort = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		StaticDir:           getEnv("STATIC_DIR", ""),
		DatabaseDriver:      getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DatabasePath:        getEnv("DATABASE_PATH", "fulfillment.db"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:   getEnv("GOOGLE_PUBSUB_TOPIC", "push-notifications"),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		WorkerAuthToken:     getEnv("WORKER_AUTH_TOKEN", "change-me-in-production"),
		EmailEnabled:        strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		EmailSender:         getEnv("EMAIL_SENDER", ""),
		EmailPassword:       getEnv("EMAIL_PASSWORD", ""),
		EmailReceiver:       getEnv("EMAIL_RECEIVER", ""),
		SMTPServer:          getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:            smtpPort,
		BackendURL:          getEnv("BACKEND_URL", "http://localhost:8080"),
		PushVapidKey:        getEnv("PUSH_VAPID_KEY", ""),
	}
}

// MailConfigured reports whether the e-mail fallback can actually send.
func (c *Config) MailConfigured() bool {
	return c.EmailEnabled && c.EmailPassword != "" && c.EmailSender != "" && c.EmailReceiver != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
