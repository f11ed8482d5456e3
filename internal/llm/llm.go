package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
)

// Client is the one capability the pipeline needs from an LLM backend:
// a prompt in, raw completion text out. Any provider satisfying it is valid.
type Client interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ErrProviderUnavailable is returned when the named provider has no
// configured credentials. Configuration problems surface explicitly; the
// pipeline never silently proceeds with a no-op extraction.
var ErrProviderUnavailable = eris.New("llm: provider not configured")

// UpstreamError wraps a network or API failure from a provider. The core
// does not retry; callers own the retry policy.
type UpstreamError struct {
	Provider   string
	StatusCode int // 0 when the failure never produced an HTTP status
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm: %s upstream error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm: %s upstream error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPStatus reports the upstream HTTP status, 0 when none was received.
func (e *UpstreamError) HTTPStatus() int { return e.StatusCode }

// Registry holds the configured provider clients. It is built once from
// config and passed in explicitly; there is no ambient default provider.
type Registry struct {
	clients map[string]Client
	models  map[string][]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		models:  make(map[string][]string),
	}
}

// Register adds a provider client with its known model list.
func (r *Registry) Register(provider string, c Client, models []string) {
	r.clients[provider] = c
	r.models[provider] = models
}

// Provider returns the client for the named provider, or
// ErrProviderUnavailable when it has not been configured.
func (r *Registry) Provider(name string) (Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, eris.Wrapf(ErrProviderUnavailable, "provider %q", name)
	}
	return c, nil
}

// Providers lists the configured provider names, sorted.
func (r *Registry) Providers() []string {
	out := make([]string, 0, len(r.clients))
	for name := range r.clients {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Models lists the known models for a provider; nil for unknown providers.
func (r *Registry) Models(provider string) []string {
	return r.models[provider]
}
