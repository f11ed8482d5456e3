package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

const openAISystemPrompt = "You are an expert at extracting structured data from medical documents. Always respond with valid JSON only."

// OpenAIClient talks to the OpenAI chat completions API over HTTP.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// OpenAIOption configures the client.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIBaseURL overrides the default API base URL (useful for
// Azure-style gateways and tests).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = url }
}

// WithOpenAIHTTPClient overrides the default http.Client.
func WithOpenAIHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.http = hc }
}

// WithOpenAIRateLimit enables client-side rate limiting.
func WithOpenAIRateLimit(requestsPerSecond float64) OpenAIOption {
	return func(c *OpenAIClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

// NewOpenAI creates an OpenAI-backed Client.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultOpenAIBaseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt through chat completions and returns the first
// choice's content.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "openai: rate limit wait")
		}
	}

	reqBody := openAIChatRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", eris.Wrap(err, "openai: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "openai: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: "openai", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Err:        eris.Errorf("API returned %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &UpstreamError{Provider: "openai", Err: eris.Wrap(err, "unmarshal response")}
	}
	if len(chatResp.Choices) == 0 {
		return "", &UpstreamError{Provider: "openai", Err: eris.New("empty choices in response")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
