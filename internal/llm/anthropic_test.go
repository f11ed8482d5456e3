package llm

import (
	"net/http"
	"net/url"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicAPIError(status int) *sdk.Error {
	return &sdk.Error{
		StatusCode: status,
		Request: &http.Request{
			Method: http.MethodPost,
			URL:    &url.URL{Scheme: "https", Host: "api.anthropic.com", Path: "/v1/messages"},
		},
		Response: &http.Response{StatusCode: status},
	}
}

func TestWrapAnthropicErr_CarriesHTTPStatus(t *testing.T) {
	err := wrapAnthropicErr(anthropicAPIError(http.StatusTooManyRequests))

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "anthropic", ue.Provider)
	assert.Equal(t, http.StatusTooManyRequests, ue.HTTPStatus())
}

func TestWrapAnthropicErr_SeesThroughWrapping(t *testing.T) {
	wrapped := eris.Wrap(anthropicAPIError(http.StatusServiceUnavailable), "messages.new")
	err := wrapAnthropicErr(wrapped)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.HTTPStatus())
}

func TestWrapAnthropicErr_TransportError(t *testing.T) {
	err := wrapAnthropicErr(eris.New("dial tcp: connection refused"))

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "anthropic", ue.Provider)
	assert.Zero(t, ue.HTTPStatus())
}

func TestNewAnthropic_RateLimiter(t *testing.T) {
	assert.Nil(t, NewAnthropic("key", 0).limiter)
	assert.NotNil(t, NewAnthropic("key", 2).limiter)
}
