// Package config loads server settings from an optional .env file and the
// process environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderHTTP   = "http"
)

type Config struct {
	Port          string
	DBPath        string
	JWTSecretKey  string
	TokenTTL      time.Duration
	MagicLinkTTL  time.Duration
	PublicURL     string
	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	LLMBaseURL    string
	LLMTimeout    time.Duration
	TTSCredential string
	LogLevel      string
}

// LoadDefaults fills development defaults. JWTSecretKey must be overridden in
// any shared deployment.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DBPath = "./name_my_child.db"
	c.JWTSecretKey = "default_secret_key"
	c.TokenTTL = 24 * time.Hour
	c.MagicLinkTTL = 15 * time.Minute
	c.PublicURL = "http://localhost:8080"
	c.LLMProvider = ProviderGemini
	c.GeminiModel = "gemini-2.5-flash"
	c.LLMBaseURL = "http://localhost:8000"
	c.LLMTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// Load applies defaults, then .env (if present), then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.JWTSecretKey, "JWT_SECRET_KEY")
	setDuration(&c.TokenTTL, "TOKEN_TTL")
	setDuration(&c.MagicLinkTTL, "MAGIC_LINK_TTL")
	setString(&c.PublicURL, "PUBLIC_URL")
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.LLMBaseURL, "LLM_BASE_URL")
	setDuration(&c.LLMTimeout, "LLM_TIMEOUT")
	setString(&c.TTSCredential, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.LogLevel, "LOG_LEVEL")
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// UsingDefaultSecret reports whether the JWT key was never configured.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecretKey == "default_secret_key"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Accepts Go durations ("90s") or a bare number of seconds.
func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
	}
}
