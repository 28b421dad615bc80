package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prepai/internal/config"
	"prepai/internal/logging"
	"prepai/internal/services"
)

// Parser extracts resume text from a PDF file.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// HTTPDoer describes the HTTP client used by the resume service client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the resume service payload.
type Response struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ServiceClient uploads PDFs to the resume parsing service.
type ServiceClient struct {
	url    string
	client HTTPDoer
}

// NewServiceClient constructs a client for the parse endpoint at url.
func NewServiceClient(url string, client HTTPDoer) *ServiceClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ServiceClient{url: strings.TrimSpace(url), client: client}
}

// Parse uploads the file as multipart field "file" and returns the parsed text.
func (c *ServiceClient) Parse(ctx context.Context, path string) (string, error) {
	if c.url == "" {
		return "", services.Wrap(services.ErrConfiguration, "resume", "parse", "service url is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "resume", "parse", "read resume", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "resume", "parse", "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "resume", "parse", "upload failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "resume", "parse", "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrTransport, "resume", "parse", fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}
	var payload Response
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", services.Wrap(services.ErrDecode, "resume", "parse", "decode response", err)
	}
	if payload.Status != "success" {
		reason := payload.Error
		if reason == "" {
			reason = payload.Text
		}
		if reason == "" {
			reason = "unknown error"
		}
		return "", services.Wrap(services.ErrValidation, "resume", "parse", "Failed to parse PDF: "+reason, nil)
	}
	return payload.Text, nil
}

// FallbackParser tries the primary parser and uses the local parser when the
// primary cannot be reached.
type FallbackParser struct {
	primary  Parser
	fallback Parser
	logger   *slog.Logger
}

// NewParser builds the parser described by cfg.
func NewParser(cfg *config.Config, logger *slog.Logger) Parser {
	logger = logging.NewComponentLogger(logger, "resume")
	if cfg == nil {
		return NewLocalParser()
	}
	timeout := time.Duration(cfg.Resume.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var primary Parser
	if url := strings.TrimSpace(cfg.Resume.ServiceURL); url != "" {
		primary = NewServiceClient(url, &http.Client{Timeout: timeout})
	}
	switch {
	case primary == nil:
		return NewLocalParser()
	case cfg.Resume.LocalFallback:
		return &FallbackParser{primary: primary, fallback: NewLocalParser(), logger: logger}
	default:
		return primary
	}
}

func (p *FallbackParser) Parse(ctx context.Context, path string) (string, error) {
	text, err := p.primary.Parse(ctx, path)
	if err == nil || !errors.Is(err, services.ErrTransport) {
		return text, err
	}
	logging.WarnWithContext(p.logger, "resume service unreachable; parsing locally", "resume_service_unreachable",
		logging.Error(err),
		logging.String(logging.FieldImpact, "resume text may be less accurate"),
		logging.String(logging.FieldErrorHint, "check resume.service_url and that the analysis service is running"),
	)
	return p.fallback.Parse(ctx, path)
}
