package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		OpenAI:   OpenAIConfig{APIKey: "sk-test", Timeout: 60},
		Typeform: TypeformConfig{APIKey: "tf-test", Timeout: 30},
		Sheets:   SheetsConfig{SpreadsheetID: "sheet-1"},
		Redirects: RedirectConfig{
			WebhookBaseURL: "https://svc.example.com",
			SuccessURL:     "https://jobs.example.com/ok",
			FailURL:        "https://jobs.example.com/no",
		},
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validTestConfig()))

	breakages := map[string]func(*Config){
		"missing openai key":   func(c *Config) { c.OpenAI.APIKey = "" },
		"missing typeform key": func(c *Config) { c.Typeform.APIKey = "" },
		"missing sheet id":     func(c *Config) { c.Sheets.SpreadsheetID = "" },
		"missing success url":  func(c *Config) { c.Redirects.SuccessURL = "" },
		"missing fail url":     func(c *Config) { c.Redirects.FailURL = "" },
	}
	for name, breakIt := range breakages {
		t.Run(name, func(t *testing.T) {
			cfg := validTestConfig()
			breakIt(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestRequestTimeouts(t *testing.T) {
	assert.Equal(t, 45*time.Second, OpenAIConfig{Timeout: 45}.RequestTimeout())
	assert.Equal(t, 20*time.Second, TypeformConfig{Timeout: 20}.RequestTimeout())
}

func TestRedisConfigEnabled(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Address: "localhost:6379"}.Enabled())
}
