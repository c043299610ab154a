package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/ai"
)

const (
	defaultNarrativeTimeout  = 20 * time.Second
	defaultNarrativeCacheTTL = 10 * time.Minute
)

// Config is the process configuration read from the environment.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  logrus.Level
	LogFormat string

	SessionSecret  string
	DemoUsername   string
	DemoPassword   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	Narrative Narrative

	CandidatesPath string
	AllowedOrigins []string
}

// Narrative configures the narrative generator chain.
type Narrative struct {
	Provider       ai.Provider
	APIKey         string
	Model          string
	BaseURL        string
	FallbackAPIKey string
	Timeout        time.Duration
	CacheTTL       time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	format := strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", format)
	}
	sameSite, err := parseSameSite(getEnv("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, err
	}
	narrative, err := loadNarrative()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           getEnv("PORT", "8000"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       level,
		LogFormat:      format,
		SessionSecret:  strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		DemoUsername:   getEnv("DEMO_USERNAME", "admin"),
		DemoPassword:   getEnv("DEMO_PASSWORD", "admin123"),
		CookieSecure:   strings.EqualFold(getEnv("COOKIE_SECURE", "false"), "true"),
		CookieSameSite: sameSite,
		Narrative:      narrative,
		CandidatesPath: strings.TrimSpace(os.Getenv("CANDIDATES_PATH")),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}, nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServer() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	return nil
}

// ConfigureLogging applies the level and formatter to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	logrus.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func loadNarrative() (Narrative, error) {
	provider := ai.Provider(strings.ToLower(getEnv("NARRATIVE_PROVIDER", string(ai.ProviderGemini))))
	if provider != ai.ProviderGemini && provider != ai.ProviderOpenAI {
		return Narrative{}, fmt.Errorf("NARRATIVE_PROVIDER must be gemini or openai, got %q", provider)
	}

	apiKey := strings.TrimSpace(os.Getenv("NARRATIVE_API_KEY"))
	if apiKey == "" {
		switch provider {
		case ai.ProviderGemini:
			apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		case ai.ProviderOpenAI:
			apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
	}

	timeout, err := parseDuration("NARRATIVE_TIMEOUT", defaultNarrativeTimeout)
	if err != nil {
		return Narrative{}, err
	}
	cacheTTL, err := parseDuration("NARRATIVE_CACHE_TTL", defaultNarrativeCacheTTL)
	if err != nil {
		return Narrative{}, err
	}

	return Narrative{
		Provider:       provider,
		APIKey:         apiKey,
		Model:          strings.TrimSpace(os.Getenv("NARRATIVE_MODEL")),
		BaseURL:        strings.TrimSpace(os.Getenv("NARRATIVE_BASE_URL")),
		FallbackAPIKey: strings.TrimSpace(os.Getenv("NARRATIVE_FALLBACK_API_KEY")),
		Timeout:        timeout,
		CacheTTL:       cacheTTL,
	}, nil
}

// Explainer builds the configured generator chain. It returns nil, nil when no
// credential is configured, which callers treat as narratives being unavailable.
func (n Narrative) Explainer() (ai.Explainer, error) {
	primary, err := ai.New(ai.Config{
		Provider: n.Provider,
		APIKey:   n.APIKey,
		Model:    n.Model,
		BaseURL:  n.BaseURL,
		Timeout:  n.Timeout,
	})
	if err != nil && !errors.Is(err, ai.ErrDisabled) {
		return nil, fmt.Errorf("narrative provider %s: %w", n.Provider, err)
	}

	var fallback ai.Explainer
	if n.FallbackAPIKey != "" && n.Provider != ai.ProviderOpenAI {
		client, err := ai.NewOpenAIClient(ai.Config{
			Provider: ai.ProviderOpenAI,
			APIKey:   n.FallbackAPIKey,
			Timeout:  n.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("narrative fallback: %w", err)
		}
		fallback = client
	}

	explainer := ai.WithFallback(primary, fallback)
	if explainer == nil {
		return nil, nil
	}
	return ai.WithCache(explainer, n.CacheTTL), nil
}

func parseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("COOKIE_SAMESITE must be lax, strict or none, got %q", value)
	}
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
