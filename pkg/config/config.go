package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultProvider       = ProviderGemini
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultLLMTimeout     = 60 * time.Second
	defaultSearchTimeout  = 10 * time.Second
	defaultFetchTimeout   = 15 * time.Second
	defaultMaxImageBytes  = 20 << 20
	defaultSlideCount     = 5
	maxSlideCount         = 30
	defaultTitleCount     = 8
	defaultMaxWords       = 70
	defaultOutputDir      = "./output"
	defaultGCSPrefix      = "decks"
	defaultAudience       = "Executive"
	defaultDeckSubtitle   = "Generated by AI PPT Wizard"
	defaultImageDirSuffix = "slidewiz/images"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
)

type Config struct {
	GeminiAPIKey string `yaml:"-"`
	GroqAPIKey   string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
	PexelsAPIKey string `yaml:"-"`
	GCPProject   string `yaml:"-"`

	LLM     LLMConfig     `yaml:"llm"`
	Images  ImagesConfig  `yaml:"images"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	GCS     GCSConfig     `yaml:"gcs"`
	Secrets SecretsConfig `yaml:"secrets"`
	Handout HandoutConfig `yaml:"handout"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider"` // "gemini", "groq" or "openai"
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ImagesConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Dir           string        `yaml:"dir"`
	SearchURL     string        `yaml:"search_url"`
	SearchTimeout time.Duration `yaml:"search_timeout"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	MaxBytes      int64         `yaml:"max_bytes"`
}

type ContentConfig struct {
	SlideCount    int    `yaml:"slide_count"`
	TitleCount    int    `yaml:"title_count"`
	MaxWords      int    `yaml:"max_words"`
	Audience      string `yaml:"audience"`
	ImageKeywords *bool  `yaml:"image_keywords"`
	Subtitle      string `yaml:"subtitle"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type SecretsConfig struct {
	Project string            `yaml:"project"`
	Names   map[string]string `yaml:"names"`
}

type HandoutConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads .env, the environment and config.yaml from the working directory.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, defaultConfigPath)
}

// LoadFrom is Load with an explicit config file path. A missing file is not
// an error; every value has a default.
func LoadFrom(_ context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey: firstEnv("G_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),
		GCPProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings no default can repair.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderGroq, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Content.SlideCount < 1 || c.Content.SlideCount > maxSlideCount {
		return fmt.Errorf("content.slide_count must be between 1 and %d, got %d", maxSlideCount, c.Content.SlideCount)
	}
	if c.GCS.Enabled && c.GCS.Bucket == "" {
		return errors.New("gcs.enabled requires gcs.bucket")
	}
	return nil
}

// TextAPIKey returns the credential of the active text-generation provider.
func (c *Config) TextAPIKey() string {
	switch c.LLM.Provider {
	case ProviderGroq:
		return c.GroqAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// SetTextAPIKey stores a credential for the active provider.
func (c *Config) SetTextAPIKey(key string) {
	switch c.LLM.Provider {
	case ProviderGroq:
		c.GroqAPIKey = key
	case ProviderOpenAI:
		c.OpenAIAPIKey = key
	default:
		c.GeminiAPIKey = key
	}
}

// TextAPIKeyEnv names the environment variable holding the active provider's key.
func (c *Config) TextAPIKeyEnv() string {
	switch c.LLM.Provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "G_API_KEY"
	}
}

// ImageKeywords reports whether slide prompts ask for an image keyword.
func (c *Config) ImageKeywords() bool {
	return c.Content.ImageKeywords == nil || *c.Content.ImageKeywords
}

func applyDefaults(cfg *Config) {
	applyLLMDefaults(cfg)
	applyImagesDefaults(cfg)
	applyContentDefaults(cfg)
	applyOutputDefaults(cfg)
	applyGCSDefaults(cfg)
	applySecretsDefaults(cfg)
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultProvider
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case ProviderGroq:
			cfg.LLM.Model = defaultGroqModel
		case ProviderOpenAI:
			cfg.LLM.Model = defaultOpenAIModel
		default:
			cfg.LLM.Model = defaultGeminiModel
		}
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = defaultLLMTimeout
	}
}

func applyImagesDefaults(cfg *Config) {
	if cfg.Images.Dir == "" {
		cfg.Images.Dir = filepath.Join(os.TempDir(), defaultImageDirSuffix)
	}
	if cfg.Images.SearchTimeout == 0 {
		cfg.Images.SearchTimeout = defaultSearchTimeout
	}
	if cfg.Images.FetchTimeout == 0 {
		cfg.Images.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Images.MaxBytes == 0 {
		cfg.Images.MaxBytes = defaultMaxImageBytes
	}
}

func applyContentDefaults(cfg *Config) {
	if cfg.Content.SlideCount == 0 {
		cfg.Content.SlideCount = defaultSlideCount
	}
	if cfg.Content.TitleCount == 0 {
		cfg.Content.TitleCount = defaultTitleCount
	}
	if cfg.Content.MaxWords == 0 {
		cfg.Content.MaxWords = defaultMaxWords
	}
	if cfg.Content.Audience == "" {
		cfg.Content.Audience = defaultAudience
	}
	if cfg.Content.Subtitle == "" {
		cfg.Content.Subtitle = defaultDeckSubtitle
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}

func applySecretsDefaults(cfg *Config) {
	if cfg.Secrets.Project == "" {
		cfg.Secrets.Project = cfg.GCPProject
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
