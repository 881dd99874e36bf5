// Package llm provides a unified interface over the model providers queried
// for book completions.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cognicore/verbatim/pkg/verbatim/internalerr"
)

// Request is one prompt to a model.
type Request struct {
	System string
	Prompt string
}

// Response carries the model's text plus the raw response body, which is
// persisted alongside the output for later audits.
type Response struct {
	Text string
	Raw  json.RawMessage
}

// Provider queries one model endpoint.
type Provider interface {
	Query(ctx context.Context, req Request) (Response, error)
}

// Options configure a provider.
type Options struct {
	APIKey      string
	Model       string
	Temperature float64 // zero selects the provider default
	MaxTokens   int

	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

const (
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	togetherEndpoint   = "https://api.together.xyz/v1/chat/completions"
	alephAlphaEndpoint = "https://api.aleph-alpha.com/complete"
)

// New returns a Provider for a provider name: "openai", "together" or
// "alephalpha".
func New(provider string, opts Options) (Provider, error) {
	switch provider {
	case "openai":
		return newChatClient(opts, openAIEndpoint, 0.7), nil
	case "together":
		// Together exposes an OpenAI-compatible endpoint; the native one had
		// trouble with instruction-wrapped models.
		return newChatClient(opts, togetherEndpoint, 0.7), nil
	case "alephalpha":
		return newCompletionClient(opts, alephAlphaEndpoint, 0.8), nil
	default:
		return nil, fmt.Errorf("provider %q: %w", provider, internalerr.ErrInvalidInput)
	}
}
