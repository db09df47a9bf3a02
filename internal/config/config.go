package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BaseURL is the public origin used to build candidate interview links,
	// e.g. https://hire.example.com
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenRouterKey   string `yaml:"openrouter_key"`
	OpenRouterBase  string `yaml:"openrouter_base"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	QuestionModel   string `yaml:"question_model"`
	FeedbackModel   string `yaml:"feedback_model"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type VoiceConfig struct {
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	WebhookSecret string `yaml:"webhook_secret"`
	AssistantName string `yaml:"assistant_name"`

	TranscriberProvider string `yaml:"transcriber_provider"`
	TranscriberModel    string `yaml:"transcriber_model"`
	TranscriberLanguage string `yaml:"transcriber_language"`
	VoiceProvider       string `yaml:"voice_provider"`
	VoiceID             string `yaml:"voice_id"`
	ModelProvider       string `yaml:"model_provider"`
	Model               string `yaml:"model"`
}

type Recruiter struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	SecureCookie bool          `yaml:"secure_cookie"`
	CookieTTL    time.Duration `yaml:"cookie_ttl"`
	Recruiters   []Recruiter   `yaml:"recruiters"`
}

type NotifyConfig struct {
	TelegramToken string `yaml:"telegram_token"`
	ChatID        int64  `yaml:"chat_id"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Voice    VoiceConfig    `yaml:"voice"`
	Auth     AuthConfig     `yaml:"auth"`
	Notify   NotifyConfig   `yaml:"notify"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.OpenRouterBase == "" {
		cfg.AI.OpenRouterBase = "https://openrouter.ai/api/v1"
	}
	if cfg.AI.QuestionModel == "" {
		cfg.AI.QuestionModel = "google/gemma-3-4b-it:free"
	}
	if cfg.AI.FeedbackModel == "" {
		cfg.AI.FeedbackModel = "google/gemini-2.0-flash-exp:free"
	}
	if cfg.Voice.BaseURL == "" {
		cfg.Voice.BaseURL = "https://api.vapi.ai"
	}
	if cfg.Voice.AssistantName == "" {
		cfg.Voice.AssistantName = "AI Recruiter"
	}
	if cfg.Voice.TranscriberProvider == "" {
		cfg.Voice.TranscriberProvider = "deepgram"
	}
	if cfg.Voice.TranscriberModel == "" {
		cfg.Voice.TranscriberModel = "nova-2"
	}
	if cfg.Voice.TranscriberLanguage == "" {
		cfg.Voice.TranscriberLanguage = "en-US"
	}
	if cfg.Voice.VoiceProvider == "" {
		cfg.Voice.VoiceProvider = "playht"
	}
	if cfg.Voice.VoiceID == "" {
		cfg.Voice.VoiceID = "jennifer"
	}
	if cfg.Voice.ModelProvider == "" {
		cfg.Voice.ModelProvider = "openai"
	}
	if cfg.Voice.Model == "" {
		cfg.Voice.Model = "gpt-4"
	}
	if cfg.Auth.CookieTTL <= 0 {
		cfg.Auth.CookieTTL = 12 * time.Hour
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Voice.APIKey == "" && !dev {
		return nil, errors.New("voice.api_key is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
