// Package gemini talks to the Google Generative Language REST API. The
// suggestion orchestrator depends on it through a narrow interface so tests
// can substitute a fake model.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/internal/config"
)

// Client calls the generateContent endpoint and normalizes provider failures
// into domain error kinds (key, quota, safety, network).
type Client struct {
	cfg    config.GeminiConfig
	http   *fasthttp.Client
	logger *zap.Logger
}

// New builds a Gemini client from configuration.
func New(cfg config.GeminiConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateJSON sends the prompt in JSON mode and returns the cleaned payload
// bytes, which are guaranteed to be structurally valid JSON.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	raw, err := c.generate(ctx, prompt, "application/json")
	if err != nil {
		return nil, err
	}
	cleaned := CleanJSON(raw)
	if !json.Valid([]byte(cleaned)) {
		c.logger.Warn("model returned malformed json", zap.String("payload", truncate(raw, 500)))
		return nil, domain.ErrAIBadResponse
	}
	return []byte(cleaned), nil
}

// Generate sends the prompt in free-text mode.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, "")
}

func (c *Client) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", domain.ErrAIKeyInvalid
	}
	if deadline, ok := ctx.Deadline(); ok && !deadline.After(time.Now()) {
		return "", domain.WrapError(domain.ErrCodeExternal, "generative api call failed", ctx.Err())
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			MaxOutputTokens:  c.cfg.MaxOutputTokens,
			TopP:             0.95,
			TopK:             40,
			ResponseMimeType: mimeType,
		},
		SafetySettings: defaultSafetySettings,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.cfg.Timeout); err != nil {
		c.logger.Warn("gemini request failed", zap.Error(err))
		return "", domain.WrapError(domain.ErrCodeExternal, "generative api call failed", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", domain.WrapError(domain.ErrCodeExternal, "generative api returned an unreadable body", err)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return "", classifyAPIError(status, parsed.Error.Status, parsed.Error.Message)
	}
	if parsed.PromptFeedback.BlockReason != "" {
		return "", domain.ErrAISafetyBlock
	}
	if len(parsed.Candidates) == 0 {
		return "", domain.ErrAIUnavailable
	}
	candidate := parsed.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", domain.ErrAISafetyBlock
	}

	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func classifyAPIError(httpStatus int, apiStatus, message string) error {
	switch {
	case apiStatus == "RESOURCE_EXHAUSTED" || httpStatus == fasthttp.StatusTooManyRequests:
		return domain.ErrAIQuota
	case httpStatus == fasthttp.StatusUnauthorized || httpStatus == fasthttp.StatusForbidden ||
		strings.Contains(message, "API key"):
		return domain.ErrAIKeyInvalid
	default:
		return domain.WrapError(domain.ErrCodeExternal, "generative api call failed",
			fmt.Errorf("status %d: %s", httpStatus, message))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
