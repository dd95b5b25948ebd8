package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath    = "remote_config.yaml"
	DefaultAPIPort       = 8081
	DefaultChannelArtDir = "images"
	DefaultWriteTimeout  = 10 * time.Second
)

// APIConfig configures the HTTP front end
type APIConfig struct {
	Port int `yaml:"port"`
}

// ChannelArtConfig points at the channel artwork folder
type ChannelArtConfig struct {
	Dir string `yaml:"dir"`
}

// WebSocketConfig configures the state stream
type WebSocketConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Config represents the remote_config.yaml structure
type Config struct {
	API        APIConfig        `yaml:"api"`
	ChannelArt ChannelArtConfig `yaml:"channel_art"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
}

// Loader reads the configuration file and applies environment overrides
type Loader struct {
	path   string
	logger *zap.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader for the file at path
func NewLoader(path string, logger *zap.Logger) *Loader {
	if path == "" {
		path = DefaultConfigPath
	}
	return &Loader{
		path:   path,
		logger: logger,
		getenv: os.Getenv,
	}
}

// Load reads the config file, falling back to defaults when it does not exist,
// then applies API_PORT and CHANNEL_ART_DIR from the environment
func (l *Loader) Load() (*Config, error) {
	l.logger.Debug("Loading remote config", zap.String("path", l.path))

	var cfg Config
	data, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		l.logger.Warn("No config file found, using defaults", zap.String("path", l.path))
	case err != nil:
		return nil, fmt.Errorf("failed to read remote config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse remote config: %w", err)
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l.logger.Info("Remote config loaded",
		zap.Int("api_port", cfg.API.Port),
		zap.String("channel_art_dir", cfg.ChannelArt.Dir),
		zap.Duration("ws_write_timeout", cfg.WebSocket.WriteTimeout))
	return &cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	if port := l.getenv("API_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid API_PORT %q: %w", port, err)
		}
		cfg.API.Port = p
	}
	if dir := l.getenv("CHANNEL_ART_DIR"); dir != "" {
		cfg.ChannelArt.Dir = dir
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}
	if c.ChannelArt.Dir == "" {
		c.ChannelArt.Dir = DefaultChannelArtDir
	}
	if c.WebSocket.WriteTimeout == 0 {
		c.WebSocket.WriteTimeout = DefaultWriteTimeout
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}
	if c.WebSocket.WriteTimeout < 0 {
		return fmt.Errorf("websocket write_timeout must not be negative, got %s", c.WebSocket.WriteTimeout)
	}
	return nil
}
