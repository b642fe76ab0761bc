package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VisionConfig configures the hosted vision model client.
type VisionConfig struct {
	// Endpoint is the recognition URL. Required.
	Endpoint string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// Model selects a specific hosted model; empty lets the service choose.
	Model string
	// Language hints the expected caption language.
	Language string
	// Timeout bounds each HTTP call. Defaults to 120 seconds.
	Timeout time.Duration
}

// Vision sends region crops to a hosted vision language model for
// transcription. It reads handwriting and faded typescript that Tesseract
// cannot, at the cost of occasionally inventing text, so its output always
// goes through the repetition filter.
type Vision struct {
	endpoint string
	apiKey   string
	model    string
	language string
	client   *http.Client
}

// NewVision returns a vision recognizer, or ErrUnavailable when no endpoint
// is configured.
func NewVision(cfg VisionConfig) (*Vision, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no vision endpoint configured", ErrUnavailable)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Vision{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		language: cfg.Language,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Name identifies the engine in logs.
func (v *Vision) Name() string {
	return "vision"
}

// Generative reports that this engine may synthesize output.
func (v *Vision) Generative() bool {
	return true
}

type visionRequest struct {
	Image    string `json:"image"`
	Format   string `json:"format"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

type visionResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
}

// Recognize posts the raw crop to the vision service and returns its
// transcription.
func (v *Vision) Recognize(ctx context.Context, region image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, region); err != nil {
		return "", fmt.Errorf("encode region: %w", err)
	}

	body, err := json.Marshal(visionRequest{
		Image:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		Format:   "png",
		Model:    v.model,
		Language: v.language,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision service returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out visionResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	slog.Debug("vision transcription complete",
		"model", out.Model,
		"confidence", out.Confidence,
		"chars", len(out.Text))
	return out.Text, nil
}
