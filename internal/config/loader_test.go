package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "remote_config.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func newTestLoader(path string, env map[string]string) *Loader {
	l := NewLoader(path, zap.NewNop())
	l.getenv = func(key string) string { return env[key] }
	return l
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `api:
  port: 9090
channel_art:
  dir: "/srv/tv/images"
websocket:
  write_timeout: 3s
`)

	cfg, err := newTestLoader(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "/srv/tv/images", cfg.ChannelArt.Dir)
	assert.Equal(t, 3*time.Second, cfg.WebSocket.WriteTimeout)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := newTestLoader(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIPort, cfg.API.Port)
	assert.Equal(t, DefaultChannelArtDir, cfg.ChannelArt.Dir)
	assert.Equal(t, DefaultWriteTimeout, cfg.WebSocket.WriteTimeout)
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, "api:\n  port: 7000\n")

	cfg, err := newTestLoader(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.API.Port)
	assert.Equal(t, DefaultChannelArtDir, cfg.ChannelArt.Dir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  port: 7000\nchannel_art:\n  dir: art\n")

	cfg, err := newTestLoader(path, map[string]string{
		"API_PORT":        "7100",
		"CHANNEL_ART_DIR": "other",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.API.Port)
	assert.Equal(t, "other", cfg.ChannelArt.Dir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "invalid yaml", content: "api: [port"},
		{name: "port out of range", content: "api:\n  port: 70000\n"},
		{name: "negative write timeout", content: "websocket:\n  write_timeout: -1s\n"},
		{name: "bad API_PORT", content: "", env: map[string]string{"API_PORT": "eighty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			cfg, err := newTestLoader(path, tt.env).Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestNewLoader_DefaultPath(t *testing.T) {
	l := NewLoader("", zap.NewNop())
	assert.Equal(t, DefaultConfigPath, l.path)
}
