package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_URL", "https://api.example.com/v1/")
	t.Setenv("API_KEY", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.example.com/v1", cfg.APIURL)
	assert.Equal(t, "s3cret", cfg.APIKey)
	assert.Equal(t, "/", cfg.HomePath)
	assert.Equal(t, 15*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, 3*time.Second, cfg.SuccessRedirectDelay)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenTimeout)
	assert.False(t, cfg.DotEnvLoaded)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIRM_TIMEOUT", "5s")
	t.Setenv("HOME_PATH", "/shop")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, "/shop", cfg.HomePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing url", map[string]string{"API_URL": ""}, "API_URL is required"},
		{"missing key", map[string]string{"API_KEY": ""}, "API_KEY is required"},
		{"relative url", map[string]string{"API_URL": "api/v1"}, "absolute URL"},
		{"zero timeout", map[string]string{"CONFIRM_TIMEOUT": "0s"}, "CONFIRM_TIMEOUT"},
		{"bad home", map[string]string{"HOME_PATH": "home"}, "HOME_PATH"},
		{"home on confirm route", map[string]string{"HOME_PATH": "/confirm"}, "reserved"},
		{"home on health route", map[string]string{"HOME_PATH": "/health"}, "reserved"},
		{"home on metrics route", map[string]string{"HOME_PATH": "/metrics"}, "reserved"},
		{"zero breaker", map[string]string{"BREAKER_MAX_FAILURES": "0"}, "BREAKER_MAX_FAILURES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
