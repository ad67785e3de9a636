package config

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads configuration for testing
func LoadTestConfig(t *testing.T) *Config {
	t.Helper()

	err := godotenv.Load("../../.env.test")
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err, "Failed to load config")
	return cfg
}

// TestLoadFromEnv tests loading configuration from environment variables
func TestLoadFromEnv(t *testing.T) {
	cfg := LoadTestConfig(t)

	// Verify configuration values
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "test", cfg.API.Mode)
	require.Equal(t, "http://127.0.0.1:8080/currency/all", cfg.Upstream.CurrencyListURL)
	require.Equal(t, "http://127.0.0.1:8080/currency/latest", cfg.Upstream.RateURL)
	require.Equal(t, 2*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "*/30 * * * *", cfg.Catalog.RefreshSchedule)
	require.Equal(t, "test_session_secret", cfg.Session.Secret)
	require.Equal(t, "rubconv_test", cfg.Session.Name)
	require.Equal(t, "test_operator_secret", cfg.Auth.TokenSecret)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 1000, cfg.RateLimit.Requests)
}

func TestLoadFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "Missing session secret",
			env:     map[string]string{"SESSION_SECRET": ""},
			wantErr: "SESSION_SECRET is required",
		},
		{
			name:    "Relative rate URL",
			env:     map[string]string{"RATE_URL": "/currency/latest"},
			wantErr: "RATE_URL must be an absolute http(s) URL",
		},
		{
			name:    "Unsupported list URL scheme",
			env:     map[string]string{"CURRENCY_LIST_URL": "ftp://example.com/all"},
			wantErr: "CURRENCY_LIST_URL must be an absolute http(s) URL",
		},
		{
			name:    "Negative timeout",
			env:     map[string]string{"UPSTREAM_TIMEOUT": "-1s"},
			wantErr: "UPSTREAM_TIMEOUT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			LoadTestConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			err := cfg.LoadFromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromEnv_OperatorSecretFallsBackToSession(t *testing.T) {
	LoadTestConfig(t)
	t.Setenv("OPERATOR_TOKEN_SECRET", "")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())
	require.Equal(t, cfg.Session.Secret, cfg.Auth.TokenSecret)
}

func TestLoadFromEnv_MalformedNumbersUseDefaults(t *testing.T) {
	LoadTestConfig(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")
	t.Setenv("OPERATOR_TOKEN_TTL", "soon")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())
	require.Equal(t, 1000, cfg.RateLimit.Requests)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}
