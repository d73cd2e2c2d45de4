package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads. Blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "PORT", "DB_PATH", "JWT_SECRET", "CREDENTIAL_SECRET", "LOCAL_USER_ID",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_CALLBACK_URL",
		"HACKERONE_BASE_URL", "HACKERONE_TIMEOUT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	// Keep a stray .env in the package directory from leaking in.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/tracker.db", cfg.DBPath)
	assert.Equal(t, "local", cfg.LocalUserID)
	assert.Equal(t, "https://api.hackerone.com/v1", cfg.HackerOneBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HackerOneTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "http://localhost:8080/auth/github/callback", cfg.GitHubCallbackURL)
	assert.False(t, cfg.AuthEnabled())
	assert.True(t, cfg.UsesDevCredentialSecret())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("HACKERONE_BASE_URL", "http://127.0.0.1:4000/v1/")
	t.Setenv("HACKERONE_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://tracker.example.com")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://127.0.0.1:4000/v1", cfg.HackerOneBaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.HackerOneTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://tracker.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "jwt", cfg.CredentialSecret, "credential secret falls back to JWT_SECRET")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "eighty"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad timeout", map[string]string{"HACKERONE_TIMEOUT": "soon"}},
		{"negative timeout", map[string]string{"HACKERONE_TIMEOUT": "-1s"}},
		{"auth without github app", map[string]string{"JWT_SECRET": "x"}},
		{"production without secrets", map[string]string{"APP_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
