package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Gateway contains settings for the persistence gateway. The client uses URL and
// RequestTimeout; the daemon uses the remaining fields.
type Gateway struct {
	URL                   string `toml:"url"`
	RequestTimeout        int    `toml:"request_timeout"`
	JWTSecret             string `toml:"jwt_secret"`
	TokenTTLMinutes       int    `toml:"token_ttl_minutes"`
	AudioConfidenceOffset int    `toml:"audio_confidence_offset"`
	AllowGuestSaves       bool   `toml:"allow_guest_saves"`
}

// Streams contains settings for the two analysis streams.
type Streams struct {
	VideoURL           string `toml:"video_url"`
	AudioURL           string `toml:"audio_url"`
	JobDescription     string `toml:"job_description"`
	FrameIntervalMS    int    `toml:"frame_interval_ms"`
	AudioSliceMS       int    `toml:"audio_slice_ms"`
	JPEGQuality        int    `toml:"jpeg_quality"`
	FinalReportGraceMS int    `toml:"final_report_grace_ms"`
}

// Resume contains settings for the resume parsing service.
type Resume struct {
	ServiceURL     string `toml:"service_url"`
	LocalFallback  bool   `toml:"local_fallback"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Scoring contains aggregation thresholds.
type Scoring struct {
	NoiseFloor float64 `toml:"noise_floor"`
}

// Media contains the capture sources used by the headless client.
type Media struct {
	FramesDir     string `toml:"frames_dir"`
	AudioFile     string `toml:"audio_file"`
	SpeechCommand string `toml:"speech_command"`
}

// Notifications contains configuration for ntfy operator alerts.
type Notifications struct {
	NtfyTopic        string `toml:"ntfy_topic"`
	RequestTimeout   int    `toml:"request_timeout"`
	IdentityFallback bool   `toml:"identity_fallback"`
	PersistFailure   bool   `toml:"persist_failure"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for PrepAI.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and the gateway bind address
//   - Gateway: persistence gateway client and daemon settings
//   - Streams: visual and dialogue stream endpoints and cadence
//   - Resume: resume parsing service
//   - Scoring: aggregation thresholds
//   - Media: frame, audio and speech sources for the session client
//   - Notifications: ntfy operator alerts
//   - Logging: log format, level, and rotation
type Config struct {
	Paths         Paths         `toml:"paths"`
	Gateway       Gateway       `toml:"gateway"`
	Streams       Streams       `toml:"streams"`
	Resume        Resume        `toml:"resume"`
	Scoring       Scoring       `toml:"scoring"`
	Media         Media         `toml:"media"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/prepai/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("prepai.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the gateway's SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "prepai.db")
}

// IdentityStorePath returns the client's credential and guest identity store.
func (c *Config) IdentityStorePath() string {
	return filepath.Join(c.Paths.DataDir, "identity.db")
}

// FrameInterval returns the visual stream send cadence.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Streams.FrameIntervalMS) * time.Millisecond
}

// AudioSlice returns the recorder chunk length.
func (c *Config) AudioSlice() time.Duration {
	return time.Duration(c.Streams.AudioSliceMS) * time.Millisecond
}

// FinalReportGrace returns how long a user-initiated end waits for the visual
// stream's final report before finalizing with last-known values.
func (c *Config) FinalReportGrace() time.Duration {
	return time.Duration(c.Streams.FinalReportGraceMS) * time.Millisecond
}

// GatewayTimeout returns the HTTP timeout for gateway requests.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.RequestTimeout) * time.Second
}

// TokenTTL returns the lifetime of issued credential tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Gateway.TokenTTLMinutes) * time.Minute
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
