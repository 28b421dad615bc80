package testsupport

import (
	"path/filepath"
	"testing"

	"prepai/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Gateway.JWTSecret = "test-secret"
	cfgVal.Streams.FinalReportGraceMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGatewayURL points the gateway client at url, typically an httptest server.
func WithGatewayURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gateway.URL = url
	}
}

// WithStreamURLs points the visual and audio streams at the given WebSocket URLs.
func WithStreamURLs(videoURL, audioURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Streams.VideoURL = videoURL
		b.cfg.Streams.AudioURL = audioURL
	}
}

// WithAudioOffset sets the gateway's audio confidence offset.
func WithAudioOffset(offset int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gateway.AudioConfidenceOffset = offset
	}
}

// WithoutGuestSaves disables unauthenticated guest saves on the gateway.
func WithoutGuestSaves() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gateway.AllowGuestSaves = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
