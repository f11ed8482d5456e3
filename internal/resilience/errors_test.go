package resilience

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/jstiltner/document-understanding/internal/llm"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", eris.New("something broke"), false},
		{"explicit transient", NewTransientError(eris.New("hiccup"), 0), true},
		{"wrapped transient", eris.Wrap(NewTransientError(eris.New("hiccup"), 503), "outer"), true},
		{"upstream 429", &llm.UpstreamError{Provider: "anthropic", StatusCode: 429, Err: eris.New("rate limited")}, true},
		{"upstream 500", &llm.UpstreamError{Provider: "openai", StatusCode: 500, Err: eris.New("server error")}, true},
		{"upstream 400", &llm.UpstreamError{Provider: "anthropic", StatusCode: 400, Err: eris.New("bad request")}, false},
		{"upstream 401", &llm.UpstreamError{Provider: "anthropic", StatusCode: 401, Err: eris.New("bad key")}, false},
		{"upstream no status", &llm.UpstreamError{Provider: "anthropic", Err: eris.New("conn refused")}, false},
		{"connection reset string", eris.New("read tcp: connection reset by peer"), true},
		{"dns failure string", eris.New("dial tcp: lookup api.example.com: no such host"), true},
		{"io timeout string", eris.New("net/http: i/o timeout"), true},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{0, 200, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
