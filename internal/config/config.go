// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// RedisURL is optional: when empty or unreachable the cache degrades to
	// a no-op store and every request falls through to live fetches.
	RedisURL string `env:"REDIS_URL"`

	// AI provider (Groq, OpenAI-compatible chat completions).
	GroqAPIKey  string        `env:"GROQ_API_KEY"`
	GroqBaseURL string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel   string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	AITimeout   time.Duration `env:"AI_TIMEOUT" envDefault:"15s"`

	// Job providers.
	RapidAPIKey     string        `env:"RAPID_API_KEY"`
	RapidAPIHost    string        `env:"RAPID_API_HOST" envDefault:"jsearch.p.rapidapi.com"`
	JoinRiseBaseURL string        `env:"JOINRISE_BASE_URL" envDefault:"https://api.joinrise.io/api/v1/jobs/public"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	// TikaURL specifies the base URL for the Apache Tika server used for
	// resume text extraction.
	TikaURL string `env:"TIKA_URL" envDefault:"http://tika:9998"`

	// Matching pipeline knobs.
	MatchThreshold int `env:"MATCH_THRESHOLD" envDefault:"20"`
	// DetailScoreCap bounds the number of detailed AI scoring calls per
	// request; DetailScoreConcurrency bounds how many run at once.
	DetailScoreCap         int `env:"DETAIL_SCORE_CAP" envDefault:"5"`
	DetailScoreConcurrency int `env:"DETAIL_SCORE_CONCURRENCY" envDefault:"1"`

	// AI retry configuration.
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"30s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"1s"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"10s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"2.0"`

	// HTTP server.
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	ServiceName string `env:"SERVICE_NAME" envDefault:"ai-job-matcher"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// GetAIBackoffConfig returns backoff configuration appropriate for the
// current environment. Tests use much shorter intervals.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
