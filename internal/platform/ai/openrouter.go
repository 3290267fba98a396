package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/medilens/medilens/internal/platform/apperr"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterModel   = "google/gemma-3-4b-it:free"
)

// OpenRouterClient performs free-text symptom analysis through the
// OpenRouter chat-completions API.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	referer string
	http    *http.Client
}

func NewOpenRouterClient(apiKey string, timeout time.Duration) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: openRouterBaseURL,
		referer: "http://localhost:5173",
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *OpenRouterClient) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeSymptoms builds the triage prompt and returns the model's free-text
// analysis. Failures are never retried.
func (c *OpenRouterClient) AnalyzeSymptoms(ctx context.Context, symptoms string, hasImage bool) (string, error) {
	if !c.Configured() {
		return "", apperr.ErrOpenRouterNotConfigured
	}

	imageNote := "has not"
	if hasImage {
		imageNote = "has"
	}
	prompt := fmt.Sprintf(
		"You are a medical triage assistant. Given these symptoms (and the note that the user %s provided images), "+
			"provide a concise summary, possible causes, and an urgency level. Keep the answer under 200 words.\n\n"+
			"Symptoms: %s", imageNote, symptoms)

	reqBody := chatRequest{
		Model: openRouterModel,
		Messages: []chatMessage{
			{Role: "user", Content: []chatContent{{Type: "text", Text: prompt}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal openrouter request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build openrouter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", "MediLens")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.ErrAIBackend.WithMessage("AI backend error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.ErrAIBackend.WithMessage("AI backend returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.ErrAIResponse
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.ErrAIResponse
	}
	return parsed.Choices[0].Message.Content, nil
}
