package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CompletionClient calls the Aleph Alpha completion endpoint, which takes a
// single prompt instead of a message list.
type CompletionClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int

	HTTPClient *http.Client
}

func newCompletionClient(opts Options, endpoint string, defaultTemp float64) *CompletionClient {
	c := &CompletionClient{
		BaseURL:     opts.BaseURL,
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		HTTPClient:  opts.HTTPClient,
	}
	if c.BaseURL == "" {
		c.BaseURL = endpoint
	}
	if c.Temperature == 0 {
		c.Temperature = defaultTemp
	}
	return c
}

type completionRequest struct {
	Model         string  `json:"model"`
	Prompt        string  `json:"prompt"`
	MaximumTokens int     `json:"maximum_tokens"`
	Temperature   float64 `json:"temperature"`
}

type completionResponse struct {
	Completions []struct {
		Completion string `json:"completion"`
	} `json:"completions"`
	Error string `json:"error,omitempty"`
}

// Query prepends the system message to the prompt and returns the first
// completion.
func (c *CompletionClient) Query(ctx context.Context, req Request) (Response, error) {
	if c.BaseURL == "" || c.Model == "" {
		return Response{}, fmt.Errorf("llm: base URL and model required")
	}

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + prompt
	}

	reqBody, err := json.Marshal(completionRequest{
		Model:         c.Model,
		Prompt:        prompt,
		MaximumTokens: c.MaxTokens,
		Temperature:   c.Temperature,
	})
	if err != nil {
		return Response{}, err
	}

	raw, err := postJSON(ctx, c.httpClient(), c.BaseURL, c.APIKey, reqBody)
	if err != nil {
		return Response{}, err
	}

	var payload completionResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Response{}, err
	}
	if payload.Error != "" {
		return Response{}, fmt.Errorf("llm error: %s", payload.Error)
	}
	if len(payload.Completions) == 0 {
		return Response{}, fmt.Errorf("llm: empty response")
	}
	return Response{Text: payload.Completions[0].Completion, Raw: raw}, nil
}

func (c *CompletionClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
