package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var errMissingKey = errors.New("API key is required")

// Backend is the connection setting for one provider.
type Backend struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ImageConfig configures illustration generation on the OpenAI images API.
type ImageConfig struct {
	APIKey  string
	Model   string
	Size    string
	BaseURL string
}

// Config selects a provider and holds every backend's settings.
type Config struct {
	// Provider is one of Providers, or "mock" for offline play.
	Provider string
	Backends map[string]Backend
	Image    ImageConfig
	Retry    RetryPolicy
}

// backendSpec describes a provider: its standard API key variable, probed
// in this order when no provider is named, and its default model.
type backendSpec struct {
	name         string
	standardKey  string
	defaultModel string
}

var backendSpecs = []backendSpec{
	{"gemini", "GEMINI_API_KEY", "gemini-flash"},
	{"openai", "OPENAI_API_KEY", "gpt-mini"},
	{"anthropic", "ANTHROPIC_API_KEY", "claude-haiku"},
	{"openrouter", "OPENROUTER_API_KEY", "google/gemini-2.0-flash-exp"},
}

// Providers lists the selectable backends.
func Providers() []string {
	names := make([]string, len(backendSpecs))
	for i, s := range backendSpecs {
		names[i] = s.name
	}
	return names
}

// DefaultConfig selects anthropic with default models and no keys.
func DefaultConfig() Config {
	cfg := Config{
		Provider: "anthropic",
		Backends: make(map[string]Backend, len(backendSpecs)),
		Image:    ImageConfig{Model: "dall-e-3", Size: "1024x1024"},
		Retry:    RetryPolicy{Attempts: 3, Base: time.Second, Max: 10 * time.Second},
	}
	for _, s := range backendSpecs {
		cfg.Backends[s.name] = Backend{Model: s.defaultModel}
	}
	return cfg
}

// ConfigFromEnv overlays MCQBOT_LLM_PROVIDER and the per-backend
// MCQBOT_<NAME>_API_KEY, _MODEL and _BASE_URL variables on the defaults.
// The MCQBOT_IMAGE_* variables configure illustrations; the image key and
// base URL fall back to the OpenAI backend's.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "MCQBOT_LLM_PROVIDER")

	for _, s := range backendSpecs {
		b := cfg.Backends[s.name]
		prefix := "MCQBOT_" + strings.ToUpper(s.name) + "_"
		setFromEnv(&b.APIKey, prefix+"API_KEY")
		setFromEnv(&b.Model, prefix+"MODEL")
		setFromEnv(&b.BaseURL, prefix+"BASE_URL")
		cfg.Backends[s.name] = b
	}

	openaiBackend := cfg.Backends["openai"]
	cfg.Image.APIKey = openaiBackend.APIKey
	cfg.Image.BaseURL = openaiBackend.BaseURL
	setFromEnv(&cfg.Image.APIKey, "MCQBOT_IMAGE_API_KEY")
	setFromEnv(&cfg.Image.Model, "MCQBOT_IMAGE_MODEL")
	setFromEnv(&cfg.Image.Size, "MCQBOT_IMAGE_SIZE")
	return cfg
}

// ResolveConfig reads the environment. When MCQBOT_LLM_PROVIDER is unset,
// the first backend whose standard key variable (GEMINI_API_KEY, ...) is
// set is selected, unless an MCQBOT_ key already configures the default.
func ResolveConfig() Config {
	cfg := ConfigFromEnv()
	if os.Getenv("MCQBOT_LLM_PROVIDER") != "" || cfg.Backends[cfg.Provider].APIKey != "" {
		return cfg
	}
	for _, s := range backendSpecs {
		if k := os.Getenv(s.standardKey); k != "" {
			b := cfg.Backends[s.name]
			b.APIKey = k
			cfg.Backends[s.name] = b
			cfg.Provider = s.name
			if s.name == "openai" && cfg.Image.APIKey == "" {
				cfg.Image.APIKey = k
			}
			break
		}
	}
	return cfg
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	if !c.known() {
		return fmt.Errorf("unknown LLM provider %q (want one of %s, or mock)",
			c.Provider, strings.Join(Providers(), ", "))
	}
	if c.Backends[c.Provider].APIKey == "" {
		return fmt.Errorf("MCQBOT_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}

func (c Config) known() bool {
	for _, s := range backendSpecs {
		if s.name == c.Provider {
			return true
		}
	}
	return false
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
