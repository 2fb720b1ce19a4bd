package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Quota   QuotaConfig
	Storage StorageConfig
	Extract ExtractConfig
	Goals   GoalsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	LogLevel     string
	AllowOrigins string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type QuotaConfig struct {
	DailyLimit int
}

type StorageConfig struct {
	TempDir     string
	MaxPartSize int64
}

// ExtractConfig controls the optional résumé text extractor. With Enabled
// false uploaded documents reach the prompt only as a placeholder.
type ExtractConfig struct {
	Enabled bool
	Timeout time.Duration
}

type GoalsConfig struct {
	File string
}

// BodyLimit is the largest request body the server accepts: two file parts
// at the per-part ceiling plus room for the text fields.
func (c *Config) BodyLimit() int {
	return int(2*c.Storage.MaxPartSize + 1<<20)
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found. Using environment and default values.")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("DAILY_LIMIT", 100)
	v.SetDefault("TEMP_DIR", filepath.Join(os.TempDir(), "interview-coach"))
	v.SetDefault("MAX_PART_SIZE", int64(50*1024*1024))
	v.SetDefault("EXTRACT_DOCUMENTS", true)
	v.SetDefault("EXTRACT_TIMEOUT", "10s")
	v.SetDefault("GOALS_FILE", "")

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("ENV"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
		},
		Quota: QuotaConfig{
			DailyLimit: v.GetInt("DAILY_LIMIT"),
		},
		Storage: StorageConfig{
			TempDir:     v.GetString("TEMP_DIR"),
			MaxPartSize: v.GetInt64("MAX_PART_SIZE"),
		},
		Extract: ExtractConfig{
			Enabled: v.GetBool("EXTRACT_DOCUMENTS"),
			Timeout: v.GetDuration("EXTRACT_TIMEOUT"),
		},
		Goals: GoalsConfig{
			File: v.GetString("GOALS_FILE"),
		},
	}

	if cfg.Quota.DailyLimit <= 0 {
		log.Warnf("DAILY_LIMIT %d is not positive, falling back to 100", cfg.Quota.DailyLimit)
		cfg.Quota.DailyLimit = 100
	}
	if cfg.Storage.MaxPartSize <= 0 {
		cfg.Storage.MaxPartSize = 50 * 1024 * 1024
	}
	if cfg.Extract.Timeout <= 0 {
		cfg.Extract.Timeout = 10 * time.Second
	}

	return cfg
}

// SetupLogging configures the global logrus logger for the environment.
func SetupLogging(cfg *Config) {
	if cfg.Server.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Warnf("invalid LOG_LEVEL %q, using info", cfg.Server.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
