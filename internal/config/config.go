package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	DefaultAdminKey = "tanky-admin"

	// картинки приходят inline в base64
	DefaultMaxBodyBytes = 10 << 20
)

type Config struct {
	Port string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIMaxTokens int
	UpstreamTimeout time.Duration

	AdminKey string

	LogFile        string
	HistoryFile    string
	HistoryBackend string // "file", "postgres" или "memory"
	DatabaseURL    string

	WebhookURL string

	RateLimit  int
	RateWindow time.Duration

	MaxBodyBytes int64

	StaticDir string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3Insecure  bool

	TelegramBotToken    string
	TelegramAdminChatID int64
}

func Load() Config {
	return Config{
		Port: envStr("PORT", "3000"),

		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   envStr("OPENAI_BASE_URL", ""),
		OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIMaxTokens: envInt("OPENAI_MAX_TOKENS", 400),
		UpstreamTimeout: envDuration("UPSTREAM_TIMEOUT", 120*time.Second),

		AdminKey: envStr("ADMIN_KEY", DefaultAdminKey),

		LogFile:        envStr("LOG_FILE", "logs/tanky.log"),
		HistoryFile:    envStr("HISTORY_FILE", "logs/recent.json"),
		HistoryBackend: strings.ToLower(envStr("HISTORY_BACKEND", "file")),
		DatabaseURL:    envStr("DATABASE_URL", ""),

		WebhookURL: envStr("WEBHOOK_URL", ""),

		RateLimit:  envInt("RATE_LIMIT", 5),
		RateWindow: envDuration("RATE_WINDOW", 15*time.Second),

		MaxBodyBytes: envBytes("MAX_BODY_SIZE", DefaultMaxBodyBytes),

		StaticDir: envStr("STATIC_DIR", ""),

		S3Endpoint:  envStr("S3_ENDPOINT", ""),
		S3AccessKey: envStr("S3_ACCESS_KEY", ""),
		S3SecretKey: envStr("S3_SECRET_KEY", ""),
		S3Bucket:    envStr("S3_BUCKET", ""),
		S3Region:    envStr("S3_REGION", ""),
		S3Insecure:  envBool("S3_INSECURE", false),

		TelegramBotToken:    envStr("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: envInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
	}
}

func (c Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramAdminChatID != 0
}

// InsecureAdminKey is true while the built-in default key is in use.
func (c Config) InsecureAdminKey() bool {
	return c.AdminKey == DefaultAdminKey
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// envBytes понимает "10 MiB", "512KB", "1048576"
func envBytes(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := humanize.ParseBytes(v); err == nil && n > 0 {
			return int64(n)
		}
	}
	return fallback
}
