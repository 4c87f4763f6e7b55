package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
	WebDir     string `toml:"web_dir"`
}

type ModelConfig struct {
	BaseURL        string `toml:"base_url"`
	Name           string `toml:"name"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ExtractConfig struct {
	OCRLanguages       []string `toml:"ocr_languages"`
	MaxAttachmentBytes int64    `toml:"max_attachment_bytes"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Model   ModelConfig   `toml:"model"`
	Extract ExtractConfig `toml:"extract"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8100",
			WebDir:     "web",
		},
		Model: ModelConfig{
			BaseURL:        "http://localhost:11434/v1/",
			Name:           "phi3",
			APIKey:         "ollama",
			TimeoutSeconds: 120,
		},
		Extract: ExtractConfig{
			OCRLanguages:       []string{"eng"},
			MaxAttachmentBytes: 20 << 20,
		},
	}
}

// Load reads the TOML config at path, falling back to defaults when the file
// is absent, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("CHATBOT_LISTEN_ADDR"); addr != "" {
		c.Server.ListenAddr = addr
	}
	if url := os.Getenv("CHATBOT_MODEL_URL"); url != "" {
		c.Model.BaseURL = url
	}
	if model := os.Getenv("CHATBOT_MODEL"); model != "" {
		c.Model.Name = model
	}
	if key := os.Getenv("CHATBOT_API_KEY"); key != "" {
		c.Model.APIKey = key
	}
	if timeout := os.Getenv("CHATBOT_MODEL_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.Model.TimeoutSeconds = secs
		}
	}
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}
