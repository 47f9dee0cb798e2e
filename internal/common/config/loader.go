// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like OPENAI_API_KEY, TYPEFORM_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	applyDefaults(v, env)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in several locations so the server, tools, and
// tests can all run from their own directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(v *viper.Viper, env string) {
	v.SetDefault("app.name", "hiring-screener")
	v.SetDefault("app.environment", env)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.temperature", 0)
	v.SetDefault("openai.timeout", 60)

	v.SetDefault("typeform.base_url", "https://api.typeform.com")
	v.SetDefault("typeform.timeout", 30)

	v.SetDefault("sheets.credentials_path", "creds.json")
	v.SetDefault("sheets.sheet_name", "journeys")
	v.SetDefault("sheets.config_sheet", "gpt instruction")
	v.SetDefault("sheets.column_job_desc", "C")
	v.SetDefault("sheets.column_must_haves", "D")
	v.SetDefault("sheets.column_questions", "G")
	v.SetDefault("sheets.column_form_link", "H")
	v.SetDefault("sheets.prompt_cell", "B6")

	v.SetDefault("notifications.provider", "smtp")
	v.SetDefault("notifications.subject", "Screening result")
	v.SetDefault("notifications.smtp.port", 587)
	v.SetDefault("notifications.smtp.use_tls", true)

	v.SetDefault("redis.dedup_ttl", 86400)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Direct env fallbacks for keys that are usually only set as plain
	// environment variables.
	bindEnvFallback(v, "openai.api_key", "OPENAI_API_KEY")
	bindEnvFallback(v, "typeform.api_key", "TYPEFORM_API_KEY")
	bindEnvFallback(v, "sheets.spreadsheet_id", "GOOGLE_SHEET_ID")
	bindEnvFallback(v, "sheets.credentials_path", "GOOGLE_CREDS_PATH")
	bindEnvFallback(v, "redirects.webhook_base_url", "WEBHOOK_BASE_URL")
	bindEnvFallback(v, "redirects.success_url", "SUCCESS_URL")
	bindEnvFallback(v, "redirects.fail_url", "FAIL_URL")
}

func bindEnvFallback(v *viper.Viper, key, envVar string) {
	if v.GetString(key) == "" {
		if val := os.Getenv(envVar); val != "" {
			v.Set(key, val)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if cfg.Typeform.APIKey == "" {
		return fmt.Errorf("typeform.api_key is required")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id is required")
	}
	if cfg.Redirects.SuccessURL == "" || cfg.Redirects.FailURL == "" {
		return fmt.Errorf("redirects.success_url and redirects.fail_url are required")
	}
	return nil
}
