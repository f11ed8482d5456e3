package llm

import (
	"context"
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const anthropicMaxTokens = 2000

// anthropicTemperature is kept low: field extraction wants determinism,
// not creativity.
const anthropicTemperature = 0.1

// AnthropicClient adapts the official SDK to the Client capability.
type AnthropicClient struct {
	client  sdk.Client
	limiter *rate.Limiter
}

// NewAnthropic creates an Anthropic-backed Client. requestsPerSecond <= 0
// disables client-side rate limiting.
func NewAnthropic(apiKey string, requestsPerSecond float64) *AnthropicClient {
	c := &AnthropicClient{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
	}
	if requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return c
}

// Generate sends the prompt as a single user message and returns the
// concatenated text blocks of the completion.
func (c *AnthropicClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "anthropic: rate limit wait")
		}
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: sdk.Float(anthropicTemperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapAnthropicErr(err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// wrapAnthropicErr surfaces the HTTP status from SDK API errors so retry
// classification treats a 429 or 503 the same as it would from any other
// provider.
func wrapAnthropicErr(err error) error {
	ue := &UpstreamError{Provider: "anthropic", Err: err}
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.StatusCode
	}
	return ue
}
