// Package transcribe proxies audio to a Whisper-compatible speech-to-text
// HTTP API. The client is constructed once at startup and injected where
// needed; there is no lazily initialized process-global engine.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/medilens/medilens/internal/platform/apperr"
)

// supportedExtensions lists the audio containers accepted for upload.
var supportedExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true,
	".ogg": true, ".webm": true, ".flac": true,
}

// Transcription is the normalized transcription result.
type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Client talks to an OpenAI-compatible /audio/transcriptions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ValidateFilename rejects files whose extension is not a supported audio
// container.
func ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return apperr.ErrUnsupportedFile.WithMessage("unsupported audio format %q", ext)
	}
	return nil
}

// Transcribe forwards the audio stream and returns the transcription. The
// call runs to completion or client timeout; failures are not retried.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (Transcription, error) {
	if !c.Configured() {
		return Transcription{}, apperr.ErrServerMisconfigured.WithMessage("WHISPER_API_KEY is not configured on the backend")
	}
	if err := ValidateFilename(filename); err != nil {
		return Transcription{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Transcription{}, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return Transcription{}, fmt.Errorf("copy audio payload: %w", err)
	}
	if err := mw.WriteField("model", c.model); err != nil {
		return Transcription{}, fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Transcription{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return Transcription{}, fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return Transcription{}, apperr.ErrTranscriptionFailed.WithMessage("transcription backend error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Transcription{}, apperr.ErrTranscriptionFailed.WithMessage("transcription backend returned status %d", resp.StatusCode)
	}

	var result Transcription
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Transcription{}, apperr.ErrTranscriptionFailed.WithMessage("unexpected transcription response format")
	}
	return result, nil
}
