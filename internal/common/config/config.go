// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct. Every recognized
// key is enumerated here; core components receive the sections they need
// at construction and never read the environment themselves.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	OpenAI        OpenAIConfig        `mapstructure:"openai"`
	Typeform      TypeformConfig      `mapstructure:"typeform"`
	Sheets        SheetsConfig        `mapstructure:"sheets"`
	Redirects     RedirectConfig      `mapstructure:"redirects"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// OpenAIConfig holds the text-completion oracle settings.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // seconds
}

func (c OpenAIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TypeformConfig holds the form-hosting API settings.
type TypeformConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	WorkspaceHref string `mapstructure:"workspace_href"`
	ThemeHref     string `mapstructure:"theme_href"`
	Timeout       int    `mapstructure:"timeout"` // seconds
}

func (c TypeformConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SheetsConfig describes the external row store: which spreadsheet, which
// sheet, and which columns hold each piece of a screening row.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsPath string `mapstructure:"credentials_path"`
	SheetName       string `mapstructure:"sheet_name"`
	ConfigSheet     string `mapstructure:"config_sheet"`
	ColumnJobDesc   string `mapstructure:"column_job_desc"`
	ColumnMustHaves string `mapstructure:"column_must_haves"`
	ColumnQuestions string `mapstructure:"column_questions"`
	ColumnFormLink  string `mapstructure:"column_form_link"`
	PromptCell      string `mapstructure:"prompt_cell"`
}

// RedirectConfig carries the routing destinations baked into each form's
// terminal screen and handed back by the validator.
type RedirectConfig struct {
	WebhookBaseURL string `mapstructure:"webhook_base_url"`
	SuccessURL     string `mapstructure:"success_url"`
	FailURL        string `mapstructure:"fail_url"`
}

// NotificationConfig selects the email provider and the optional
// recruiter alert topic.
type NotificationConfig struct {
	Enabled  bool       `mapstructure:"enabled"`
	Provider string     `mapstructure:"provider"` // "smtp" or "ses"
	From     string     `mapstructure:"from"`
	Subject  string     `mapstructure:"subject"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
	AWS      AWSConfig  `mapstructure:"aws"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type AWSConfig struct {
	Region      string `mapstructure:"region"`
	SNSTopicARN string `mapstructure:"sns_topic_arn"`
}

// RedisConfig backs the optional webhook delivery dedup. When Address is
// empty the dedup layer is disabled entirely.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	DedupTTL int    `mapstructure:"dedup_ttl"` // seconds
}

func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

func (c RedisConfig) DedupExpiry() time.Duration {
	if c.DedupTTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.DedupTTL) * time.Second
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds tracing settings. An empty Jaeger endpoint
// disables trace export.
type ObservabilityConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
