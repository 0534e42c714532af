// Package config loads service settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = "8080"
	DefaultResearchProvider = "gemini"
	DefaultResearchTimeout  = 30 * time.Second
	DefaultResearchCacheTTL = time.Hour
	DefaultImageModel       = "imagen-3.0-generate-002"
	DefaultImageBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultImageTimeout     = 120 * time.Second
	DefaultImageInterval    = 2 * time.Second
	DefaultCanvasWidth      = 768
	DefaultCanvasHeight     = 1024
	DefaultQRSize           = 80
	DefaultFontFamily       = "custom"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Research ResearchConfig `yaml:"research"`
	Image    ImageConfig    `yaml:"image"`
	Render   RenderConfig   `yaml:"render"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type ResearchConfig struct {
	Provider     string        `yaml:"provider"` // gemini | openai | static
	Model        string        `yaml:"model"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	StaticReply  string        `yaml:"static_reply"`
}

// APIKey returns the credential for the selected provider.
func (r ResearchConfig) APIKey() string {
	if strings.EqualFold(r.Provider, "openai") {
		return r.OpenAIAPIKey
	}
	return r.GeminiAPIKey
}

type ImageConfig struct {
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
}

type RenderConfig struct {
	// Width and Height force the background to a fixed size. Zero keeps
	// whatever the image service returned.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FontPath is an extra TTF/OTF face registered as FontFamily, used for
	// every box when set.
	FontPath   string `yaml:"font_path"`
	FontFamily string `yaml:"font_family"`
	QRSize     int    `yaml:"qr_size"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort},
		Research: ResearchConfig{
			Provider: DefaultResearchProvider,
			Timeout:  DefaultResearchTimeout,
			CacheTTL: DefaultResearchCacheTTL,
		},
		Image: ImageConfig{
			Model:    DefaultImageModel,
			BaseURL:  DefaultImageBaseURL,
			Timeout:  DefaultImageTimeout,
			Interval: DefaultImageInterval,
		},
		Render: RenderConfig{
			Width:      DefaultCanvasWidth,
			Height:     DefaultCanvasHeight,
			FontFamily: DefaultFontFamily,
			QRSize:     DefaultQRSize,
		},
	}
}

// Load reads defaults, then the YAML file at path (skipped when path is
// empty), then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("RESEARCH_PROVIDER", &c.Research.Provider)
	str("RESEARCH_MODEL", &c.Research.Model)
	str("GEMINI_API_KEY", &c.Research.GeminiAPIKey)
	str("OPENAI_API_KEY", &c.Research.OpenAIAPIKey)
	str("IMAGEN_API_KEY", &c.Image.APIKey)
	str("IMAGEN_MODEL", &c.Image.Model)
	str("FONT_PATH", &c.Render.FontPath)
	if v, ok := lookup("RESEARCH_CACHE_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Research.CacheTTL = d
		}
	}
	if v, ok := lookup("QR_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Render.QRSize = n
		}
	}

	// Imagen and Gemini share Google AI Studio keys.
	if c.Image.APIKey == "" {
		c.Image.APIKey = c.Research.GeminiAPIKey
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	} else if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("server.port %q is not a number", c.Server.Port))
	}
	switch strings.ToLower(c.Research.Provider) {
	case "gemini", "openai", "static":
	default:
		errs = append(errs, fmt.Errorf("research.provider %q is not one of gemini, openai, static", c.Research.Provider))
	}
	if c.Research.Timeout < 0 || c.Image.Timeout < 0 || c.Image.Interval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		errs = append(errs, errors.New("render.width and render.height must not be negative"))
	}
	if (c.Render.Width == 0) != (c.Render.Height == 0) {
		errs = append(errs, errors.New("render.width and render.height must be set together"))
	}
	if c.Render.QRSize < 0 {
		errs = append(errs, errors.New("render.qr_size must not be negative"))
	}
	if c.Render.FontPath != "" && c.Render.FontFamily == "" {
		errs = append(errs, errors.New("render.font_family is required with render.font_path"))
	}
	return errors.Join(errs...)
}
