package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateStreams(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"gateway.request_timeout":       c.Gateway.RequestTimeout,
		"gateway.token_ttl_minutes":     c.Gateway.TokenTTLMinutes,
		"resume.timeout_seconds":        c.Resume.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	return nil
}

// ValidateDaemon applies the stricter checks needed to run the gateway daemon.
func (c *Config) ValidateDaemon() error {
	if c.Gateway.JWTSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/prepai/config.toml"
		}
		return fmt.Errorf("gateway.jwt_secret is required. Set PREPAI_JWT_SECRET env var or edit %s (create with 'prepai config init')", defaultPath)
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateGateway() error {
	if err := ensureURL("gateway.url", c.Gateway.URL, "http", "https"); err != nil {
		return err
	}
	if c.Gateway.AudioConfidenceOffset < 0 || c.Gateway.AudioConfidenceOffset > 100 {
		return errors.New("gateway.audio_confidence_offset must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateStreams() error {
	if err := ensureURL("streams.video_url", c.Streams.VideoURL, "ws", "wss"); err != nil {
		return err
	}
	if err := ensureURL("streams.audio_url", c.Streams.AudioURL, "ws", "wss"); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"streams.frame_interval_ms": c.Streams.FrameIntervalMS,
		"streams.audio_slice_ms":    c.Streams.AudioSliceMS,
	}); err != nil {
		return err
	}
	if c.Streams.JPEGQuality < 1 || c.Streams.JPEGQuality > 100 {
		return errors.New("streams.jpeg_quality must be between 1 and 100")
	}
	if c.Resume.ServiceURL != "" {
		if err := ensureURL("resume.service_url", c.Resume.ServiceURL, "http", "https"); err != nil {
			return err
		}
	} else if !c.Resume.LocalFallback {
		return errors.New("resume.service_url must be set when resume.local_fallback is false")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.NoiseFloor < 0 || c.Scoring.NoiseFloor >= 100 {
		return errors.New("scoring.noise_floor must be between 0 and 100")
	}
	return nil
}

func ensureURL(key, value string, schemes ...string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	for _, scheme := range schemes {
		if strings.EqualFold(parsed.Scheme, scheme) && parsed.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be a %s URL, got %q", key, strings.Join(schemes, "/"), value)
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
