package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGateway()
	c.normalizeStreams()
	c.normalizeResume()
	if err := c.normalizeMedia(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeGateway() {
	c.Gateway.URL = strings.TrimSpace(c.Gateway.URL)
	if value, ok := os.LookupEnv("PREPAI_GATEWAY_URL"); ok && strings.TrimSpace(value) != "" {
		c.Gateway.URL = strings.TrimSpace(value)
	}
	if c.Gateway.URL == "" {
		c.Gateway.URL = defaultGatewayURL
	}
	c.Gateway.URL = strings.TrimRight(c.Gateway.URL, "/")
	c.Gateway.JWTSecret = strings.TrimSpace(c.Gateway.JWTSecret)
	if c.Gateway.JWTSecret == "" {
		if value, ok := os.LookupEnv("PREPAI_JWT_SECRET"); ok {
			c.Gateway.JWTSecret = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("JWT_SECRET"); ok {
			c.Gateway.JWTSecret = strings.TrimSpace(value)
		}
	}
	if c.Gateway.RequestTimeout <= 0 {
		c.Gateway.RequestTimeout = defaultGatewayTimeout
	}
	if c.Gateway.TokenTTLMinutes <= 0 {
		c.Gateway.TokenTTLMinutes = defaultTokenTTLMinutes
	}
}

func (c *Config) normalizeStreams() {
	c.Streams.VideoURL = strings.TrimSpace(c.Streams.VideoURL)
	if c.Streams.VideoURL == "" {
		c.Streams.VideoURL = defaultVideoURL
	}
	c.Streams.AudioURL = strings.TrimSpace(c.Streams.AudioURL)
	if c.Streams.AudioURL == "" {
		c.Streams.AudioURL = defaultAudioURL
	}
	c.Streams.JobDescription = strings.TrimSpace(c.Streams.JobDescription)
	if c.Streams.JobDescription == "" {
		c.Streams.JobDescription = defaultJobDescription
	}
	if c.Streams.FinalReportGraceMS < 0 {
		c.Streams.FinalReportGraceMS = 0
	}
}

func (c *Config) normalizeResume() {
	c.Resume.ServiceURL = strings.TrimSpace(c.Resume.ServiceURL)
	if c.Resume.TimeoutSeconds <= 0 {
		c.Resume.TimeoutSeconds = defaultResumeTimeoutSeconds
	}
}

func (c *Config) normalizeMedia() error {
	var err error
	if c.Media.FramesDir, err = expandPath(strings.TrimSpace(c.Media.FramesDir)); err != nil {
		return fmt.Errorf("media.frames_dir: %w", err)
	}
	if c.Media.AudioFile, err = expandPath(strings.TrimSpace(c.Media.AudioFile)); err != nil {
		return fmt.Errorf("media.audio_file: %w", err)
	}
	c.Media.SpeechCommand = strings.TrimSpace(c.Media.SpeechCommand)
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("PREPAI_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
