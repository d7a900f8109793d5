package config

import (
	"fmt"
	"strings"

	"foodgram.io/backend/internal/validation"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	TableName string `koanf:"table_name" validate:"required"`
	IndexName string `koanf:"index_name" validate:"required"`
	TopicArn  string `koanf:"topic_arn"`
	// BaseURL prefixes short links and redirects. Empty means the request domain.
	BaseURL   string `koanf:"base_url" validate:"omitempty,url"`
	PageSize  int    `koanf:"page_size" validate:"min=1,max=100"`
	LogLevel  string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=json console"`
	// TokenSecret keys the encryption of pagination tokens. It has no default.
	TokenSecret string `koanf:"token_secret" validate:"required"`
}

func defaultConfig() Config {
	return Config{
		TableName: "RecipeData",
		IndexName: "GS1",
		PageSize:  6,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

var keys = map[string]string{
	"TABLE_NAME":   "table_name",
	"INDEX_NAME":   "index_name",
	"TOPIC_ARN":    "topic_arn",
	"BASE_URL":     "base_url",
	"PAGE_SIZE":    "page_size",
	"LOG_LEVEL":    "log_level",
	"LOG_FORMAT":   "log_format",
	"TOKEN_SECRET": "token_secret",
}

// Load layers environment variables over the defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	envProvider := env.Provider("", ".", func(s string) string {
		return keys[strings.ToUpper(s)]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
