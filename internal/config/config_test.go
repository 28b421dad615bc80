package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"prepai/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "prepai")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "prepai.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:5000" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.FrameInterval() != 100*time.Millisecond {
		t.Fatalf("unexpected frame interval: %s", cfg.FrameInterval())
	}
	if cfg.AudioSlice() != time.Second {
		t.Fatalf("unexpected audio slice: %s", cfg.AudioSlice())
	}
	if cfg.Gateway.AudioConfidenceOffset != 0 {
		t.Fatalf("expected zero audio offset by default, got %d", cfg.Gateway.AudioConfidenceOffset)
	}
	if cfg.Scoring.NoiseFloor != 5 {
		t.Fatalf("expected noise floor 5, got %v", cfg.Scoring.NoiseFloor)
	}
	if !cfg.Gateway.AllowGuestSaves {
		t.Fatal("expected guest saves allowed by default")
	}
	if cfg.TokenTTL() != time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/prepai-data"

[gateway]
url = "http://gateway.local:9000/api/"
audio_confidence_offset = 60

[streams]
video_url = "wss://vision.example/ws"
frame_interval_ms = 250

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "prepai-data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Gateway.URL != "http://gateway.local:9000/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.AudioConfidenceOffset != 60 {
		t.Fatalf("unexpected audio offset: %d", cfg.Gateway.AudioConfidenceOffset)
	}
	if cfg.Streams.VideoURL != "wss://vision.example/ws" {
		t.Fatalf("unexpected video url: %q", cfg.Streams.VideoURL)
	}
	if cfg.FrameInterval() != 250*time.Millisecond {
		t.Fatalf("unexpected frame interval: %s", cfg.FrameInterval())
	}
	if cfg.Streams.AudioURL != "ws://localhost:8001/ws/audio" {
		t.Fatalf("expected default audio url, got %q", cfg.Streams.AudioURL)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PREPAI_JWT_SECRET", "s3cret")
	t.Setenv("PREPAI_GATEWAY_URL", "https://prep.example/api")
	t.Setenv("PREPAI_NTFY_TOPIC", "https://ntfy.sh/prepai")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gateway.JWTSecret != "s3cret" {
		t.Fatalf("expected jwt secret from env, got %q", cfg.Gateway.JWTSecret)
	}
	if cfg.Gateway.URL != "https://prep.example/api" {
		t.Fatalf("expected gateway url from env, got %q", cfg.Gateway.URL)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/prepai" {
		t.Fatalf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
	if err := cfg.ValidateDaemon(); err != nil {
		t.Fatalf("ValidateDaemon returned error: %v", err)
	}
}

func TestValidateDaemonRequiresSecret(t *testing.T) {
	cfg := config.Default()
	err := cfg.ValidateDaemon()
	if err == nil || !strings.Contains(err.Error(), "gateway.jwt_secret") {
		t.Fatalf("expected jwt secret error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"video scheme", func(c *config.Config) { c.Streams.VideoURL = "http://localhost:8000/ws" }, "streams.video_url"},
		{"gateway url", func(c *config.Config) { c.Gateway.URL = "" }, "gateway.url"},
		{"frame interval", func(c *config.Config) { c.Streams.FrameIntervalMS = 0 }, "streams.frame_interval_ms"},
		{"jpeg quality", func(c *config.Config) { c.Streams.JPEGQuality = 101 }, "streams.jpeg_quality"},
		{"noise floor", func(c *config.Config) { c.Scoring.NoiseFloor = -1 }, "scoring.noise_floor"},
		{"audio offset", func(c *config.Config) { c.Gateway.AudioConfidenceOffset = 150 }, "gateway.audio_confidence_offset"},
		{"resume source", func(c *config.Config) {
			c.Resume.ServiceURL = ""
			c.Resume.LocalFallback = false
		}, "resume.service_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Streams.FrameIntervalMS != 100 {
		t.Fatalf("unexpected sample frame interval: %d", decoded.Streams.FrameIntervalMS)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
}
