package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"docinsight/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	LLM    LLMConfig
	CORS   CORSConfig
	Upload UploadConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds limits for uploaded documents.
type UploadConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	TempDir       string `mapstructure:"temp_dir"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB << 20
}

// ProviderConfig holds settings for a single LLM completion provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds completion settings. The flat fields describe the primary
// provider; Secondary and Tertiary are optional fallbacks.
type LLMConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`

	Temperature     float64 `mapstructure:"temperature"`
	CSVMaxTokens    int     `mapstructure:"csv_max_tokens"`
	ShippingMaxToks int     `mapstructure:"shipping_max_tokens"`

	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config.
func (l *LLMConfig) PrimaryConfig() *ProviderConfig {
	return &ProviderConfig{
		Provider:    l.Provider,
		APIKey:      l.APIKey,
		Model:       l.Model,
		Endpoint:    l.Endpoint,
		TimeoutSecs: l.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (l *LLMConfig) SecondaryConfig() *ProviderConfig {
	if l.Secondary.Provider != "" {
		return &l.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (l *LLMConfig) TertiaryConfig() *ProviderConfig {
	if l.Tertiary.Provider != "" {
		return &l.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks settings without which the application cannot start.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("%w: set DOCINSIGHT_LLM_API_KEY or ANTHROPIC_API_KEY", domain.ErrMissingAPIKey)
	}
	return nil
}

// Load reads configuration from a .env file (if present) and environment
// variables with the DOCINSIGHT_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)
	v.SetDefault("upload.temp_dir", "")

	// LLM defaults
	v.SetDefault("llm.provider", "claude")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.csv_max_tokens", 4096)
	v.SetDefault("llm.shipping_max_tokens", 1000)
	v.SetDefault("llm.secondary.provider", "")
	v.SetDefault("llm.secondary.api_key", "")
	v.SetDefault("llm.secondary.model", "")
	v.SetDefault("llm.secondary.timeout_secs", 120)
	v.SetDefault("llm.tertiary.provider", "")
	v.SetDefault("llm.tertiary.api_key", "")
	v.SetDefault("llm.tertiary.model", "")
	v.SetDefault("llm.tertiary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string][]string{
		"server.port":                {"DOCINSIGHT_SERVER_PORT"},
		"server.read_timeout":        {"DOCINSIGHT_SERVER_READ_TIMEOUT"},
		"server.write_timeout":       {"DOCINSIGHT_SERVER_WRITE_TIMEOUT"},
		"server.environment":         {"DOCINSIGHT_SERVER_ENVIRONMENT"},
		"log.level":                  {"DOCINSIGHT_LOG_LEVEL"},
		"log.format":                 {"DOCINSIGHT_LOG_FORMAT"},
		"cors.allowed_origins":       {"DOCINSIGHT_CORS_ALLOWED_ORIGINS"},
		"upload.max_file_size_mb":    {"DOCINSIGHT_UPLOAD_MAX_FILE_SIZE_MB"},
		"upload.temp_dir":            {"DOCINSIGHT_UPLOAD_TEMP_DIR"},
		"llm.provider":               {"DOCINSIGHT_LLM_PROVIDER"},
		"llm.api_key":                {"DOCINSIGHT_LLM_API_KEY", "ANTHROPIC_API_KEY"},
		"llm.model":                  {"DOCINSIGHT_LLM_MODEL"},
		"llm.endpoint":               {"DOCINSIGHT_LLM_ENDPOINT"},
		"llm.timeout_secs":           {"DOCINSIGHT_LLM_TIMEOUT_SECS"},
		"llm.temperature":            {"DOCINSIGHT_LLM_TEMPERATURE"},
		"llm.csv_max_tokens":         {"DOCINSIGHT_LLM_CSV_MAX_TOKENS"},
		"llm.shipping_max_tokens":    {"DOCINSIGHT_LLM_SHIPPING_MAX_TOKENS"},
		"llm.secondary.provider":     {"DOCINSIGHT_LLM_SECONDARY_PROVIDER"},
		"llm.secondary.api_key":      {"DOCINSIGHT_LLM_SECONDARY_API_KEY"},
		"llm.secondary.model":        {"DOCINSIGHT_LLM_SECONDARY_MODEL"},
		"llm.secondary.timeout_secs": {"DOCINSIGHT_LLM_SECONDARY_TIMEOUT_SECS"},
		"llm.tertiary.provider":      {"DOCINSIGHT_LLM_TERTIARY_PROVIDER"},
		"llm.tertiary.api_key":       {"DOCINSIGHT_LLM_TERTIARY_API_KEY"},
		"llm.tertiary.model":         {"DOCINSIGHT_LLM_TERTIARY_MODEL"},
		"llm.tertiary.timeout_secs":  {"DOCINSIGHT_LLM_TERTIARY_TIMEOUT_SECS"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if DOCINSIGHT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCINSIGHT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		TempDir:       v.GetString("upload.temp_dir"),
	}

	cfg.LLM = LLMConfig{
		Provider:        v.GetString("llm.provider"),
		APIKey:          v.GetString("llm.api_key"),
		Model:           v.GetString("llm.model"),
		Endpoint:        v.GetString("llm.endpoint"),
		TimeoutSecs:     v.GetInt("llm.timeout_secs"),
		Temperature:     v.GetFloat64("llm.temperature"),
		CSVMaxTokens:    v.GetInt("llm.csv_max_tokens"),
		ShippingMaxToks: v.GetInt("llm.shipping_max_tokens"),
		Secondary: ProviderConfig{
			Provider:    v.GetString("llm.secondary.provider"),
			APIKey:      v.GetString("llm.secondary.api_key"),
			Model:       v.GetString("llm.secondary.model"),
			TimeoutSecs: v.GetInt("llm.secondary.timeout_secs"),
		},
		Tertiary: ProviderConfig{
			Provider:    v.GetString("llm.tertiary.provider"),
			APIKey:      v.GetString("llm.tertiary.api_key"),
			Model:       v.GetString("llm.tertiary.model"),
			TimeoutSecs: v.GetInt("llm.tertiary.timeout_secs"),
		},
	}

	return cfg, nil
}
