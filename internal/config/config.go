package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

// Instruction prepended to every transcript sent to Gemini
const DefaultPrompt = "You are a YouTube video summarizer. You will be taking the transcript text\n" +
	"and summarizing the entire video and providing the important summary in points\n" +
	"within 250 words. Please provide the summary of the text given here: "

type Secret struct {
	Bytes []byte
}

type Prompt struct {
	Text string
}

type Config struct {
	// Running localy or not
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	Protocol string `env:"PROTOCOL" envDefault:"https"`

	// Sessions
	CsrfKey         Secret `env:"CSRF_KEY"`
	AuthKey         Secret `env:"AUTH_KEY"`
	EncryptionKey   Secret `env:"ENCRYPTION_KEY"`
	SessionName     string `env:"SESSION_NAME" envDefault:"_notes"`
	CsrfSessionName string `env:"CSRF_SESSION_NAME" envDefault:"_notes_csrf"`
	SessionMaxAge   int    `env:"SESSION_MAX_AGE" envDefault:"86400"`

	// App settings
	AppName         string        `env:"APP_NAME" envDefault:"YouTube Transcript to Detailed Notes Converter"`
	Domain          string        `env:"DOMAIN" envDefault:"localhost:5000"`
	PipelineTimeout time.Duration `env:"PIPELINE_TIMEOUT" envDefault:"120s"`

	// Google APIs settings
	YouTubeAPIKey   string `env:"YOUTUBE_API_KEY"`
	TranslateAPIKey string `env:"TRANSLATE_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiPrompt    Prompt `env:"GEMINI_PROMPT"`
	GeminiRPM       int64  `env:"GEMINI_RPM" envDefault:"10"`
	GeminiRPD       int64  `env:"GEMINI_RPD" envDefault:"250"`
	GeminiTimezone  string `env:"GEMINI_TIMEZONE" envDefault:"America/Los_Angeles"`

	// Captions
	TranscriptLanguages []string `env:"TRANSCRIPT_LANGUAGES" envDefault:"en"`

	// Redis
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTimeout  time.Duration `env:"CACHE_TIMEOUT" envDefault:"86400s"`

	// Local app host and port
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"5000"`
}

// New creates new config object
func New() *Config {

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse the config; %v", err)
	}

	return cfg
}

// Parse parses the config from the environment and validates it
func Parse() (*Config, error) {

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.GeminiPrompt.Text == "" {
		cfg.GeminiPrompt.Text = DefaultPrompt
	}

	// The translation API accepts the same Google Cloud key
	if cfg.TranslateAPIKey == "" {
		cfg.TranslateAPIKey = cfg.GeminiAPIKey
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("no GEMINI_API_KEY defined in env")
	}

	// Check if the app has all the necessary secrets
	secrets := map[string]Secret{
		"CSRF_KEY":       cfg.CsrfKey,
		"AUTH_KEY":       cfg.AuthKey,
		"ENCRYPTION_KEY": cfg.EncryptionKey,
	}

	for name, secret := range secrets {
		if len(secret.Bytes) == 0 {
			return nil, fmt.Errorf("empty or no secret key defined in env: %s", name)
		}
	}

	return &cfg, nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// It's called by the env library to decode the Secret,
func (s *Secret) UnmarshalText(text []byte) error {

	s.Bytes = make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(s.Bytes, text)
	if err != nil {
		return fmt.Errorf("error decoding a secret key; %w", err)
	}

	s.Bytes = s.Bytes[:n]
	return nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// It's called by the env library to decode the Prompt,
func (p *Prompt) UnmarshalText(text []byte) error {

	promptBytes := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(promptBytes, text)
	if err != nil {
		return fmt.Errorf("error decoding the prompt; %w", err)
	}

	p.Text = string(promptBytes[:n])
	return nil
}
