// Package config loads the server configuration from the environment.
//
// In development a .env file in the working directory is read first;
// real environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and handed to the components that need
// it. Nothing else reads the environment.
type Config struct {
	Env    string
	Port   int
	DBPath string

	// JWTSecret enables GitHub login. Empty means local single-user mode.
	JWTSecret string
	// CredentialSecret keys the sealing of platform API tokens.
	CredentialSecret string
	LocalUserID      string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	HackerOneBaseURL string
	HackerOneTimeout time.Duration

	CORSAllowedOrigins []string
}

// devCredentialSecret is only used when neither CREDENTIAL_SECRET nor
// JWT_SECRET is set outside production.
const devCredentialSecret = "dev-insecure-credential-secret"

// Load reads the configuration. It fails on malformed values and on
// settings production must not run without.
func Load() (Config, error) {
	if getEnv("APP_ENV", "development") != "production" {
		// A missing .env is normal.
		_ = godotenv.Load()
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	timeout, err := getEnvDuration("HACKERONE_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:    getEnv("APP_ENV", "development"),
		Port:   port,
		DBPath: getEnv("DB_PATH", "data/tracker.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		CredentialSecret: getEnv("CREDENTIAL_SECRET", ""),
		LocalUserID:      getEnv("LOCAL_USER_ID", "local"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/auth/github/callback", port)),

		HackerOneBaseURL: strings.TrimRight(getEnv("HACKERONE_BASE_URL", "https://api.hackerone.com/v1"), "/"),
		HackerOneTimeout: timeout,

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.CredentialSecret == "" {
		cfg.CredentialSecret = cfg.JWTSecret
	}
	if cfg.CredentialSecret == "" && !cfg.IsProduction() {
		cfg.CredentialSecret = devCredentialSecret
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.HackerOneTimeout <= 0 {
		errs = append(errs, errors.New("HACKERONE_TIMEOUT must be positive"))
	}
	if c.CredentialSecret == "" {
		errs = append(errs, errors.New("CREDENTIAL_SECRET or JWT_SECRET is required in production"))
	}
	if c.AuthEnabled() && (c.GitHubClientID == "" || c.GitHubClientSecret == "") {
		errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required when JWT_SECRET is set"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// AuthEnabled reports whether GitHub login guards the API.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// UsesDevCredentialSecret reports whether tokens are sealed with the
// built-in development key.
func (c Config) UsesDevCredentialSecret() bool {
	return c.CredentialSecret == devCredentialSecret
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
