package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medilens/medilens/internal/platform/apperr"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-1.5-flash"
)

// imagePrompt instructs the model to answer with the exact JSON shape the
// normalizer expects.
const imagePrompt = `You are a highly skilled medical imaging expert with extensive knowledge in radiology and diagnostic imaging.
Analyze the medical image and provide a structured JSON response with the following fields:

{
    "analysis_text": "brief summary of what you observe in the image",
    "detected_symptoms": [
        {
            "symptom_name": "name of symptom",
            "severity": "low / medium / high",
            "description": "brief description"
        }
    ],
    "possible_conditions": ["list of potential conditions based on visible symptoms"],
    "urgency_level": "low / medium / high / emergency",
    "recommendations": ["specific action advice for the patient"],
    "disclaimer": "This is not a medical diagnosis. Please consult a healthcare professional."
}

Guidelines:
- Focus ONLY on what is visible in the image
- Do not hallucinate details not present
- Use simple but professional medical language
- Be specific about visible symptoms
- Provide actionable recommendations
- Set urgency_level based on severity: emergency for critical, high for urgent, medium for moderate, low for minor
- Always include the medical disclaimer

Return ONLY valid JSON, no additional text or markdown.`

// GeminiClient performs image analysis through the Gemini generateContent
// REST API with the image inlined as base64.
type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewGeminiClient(apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// DecodeImage strips an optional data-URI prefix, base64-decodes the payload
// and sniffs its media type (defaulting to image/jpeg).
func DecodeImage(base64Image string) (data []byte, mimeType string, err error) {
	payload := base64Image
	if idx := strings.IndexByte(payload, ','); idx >= 0 {
		payload = payload[idx+1:]
	}
	data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, "", apperr.ErrInvalidImage
	}
	mimeType = http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

// AnalyzeImage sends the image plus optional user context to Gemini and
// normalizes the response. The result is best-effort: when the model ignores
// the JSON instruction the normalizer falls back to keyword heuristics.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, base64Image, userContext string) (Analysis, error) {
	if !c.Configured() {
		return Analysis{}, apperr.ErrServerMisconfigured.WithMessage("GEMINI_API_KEY is not configured on the backend")
	}

	data, mimeType, err := DecodeImage(base64Image)
	if err != nil {
		return Analysis{}, err
	}

	prompt := imagePrompt
	if userContext != "" {
		prompt = prompt + "\n\nUser context: " + userContext
	}

	var reqBody geminiRequest
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
	}})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Analysis{}, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Analysis{}, apperr.ErrAIBackend.WithMessage("AI backend error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Analysis{}, apperr.ErrAIBackend.WithMessage("AI backend returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Analysis{}, apperr.ErrAIResponse
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Analysis{}, apperr.ErrAIResponse
	}

	return Normalize(parsed.Candidates[0].Content.Parts[0].Text), nil
}
