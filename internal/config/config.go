package config

import (
	"os"
	"strconv"
	"strings"
)

// Config collects every tunable the app reads. Everything that used to be
// an ambient setting (quota, page size, upload caps) is held here and
// loaded once at startup.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	SiteURL       string

	TipsPerPage      int
	PrivateTipsLimit int
	MaxTagsPerTip    int
	MinCodesPerTip   int
	MaxCodesPerTip   int

	IconMaxBytes       int64
	AttachmentMaxBytes int64
	UploadDir          string

	BannedWords []string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

var cfg *Config

// Load reads the environment into a fresh Config and makes it current.
func Load() *Config {
	cfg = &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		SiteURL:       getenv("SITE_URL", "http://localhost:8080"),

		TipsPerPage:      getenvInt("TIPS_PER_PAGE", 12),
		PrivateTipsLimit: getenvInt("PRIVATE_TIPS_LIMIT", 20),
		MaxTagsPerTip:    5,
		MinCodesPerTip:   1,
		MaxCodesPerTip:   5,

		IconMaxBytes:       500 * 1024,
		AttachmentMaxBytes: 3 * 1024 * 1024,
		UploadDir:          getenv("UPLOAD_DIR", "./uploads"),

		BannedWords: splitList(getenv("BANNED_WORDS", "ばか,あほ,まぬけ,うんこ")),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}
	return cfg
}

// Get returns the current config, loading it on first use.
func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
