// internal/naming/naming.go
//
// Best-effort client for AI-generated team names. The splitter never
// depends on this succeeding: fewer names than asked for, garbage, or a
// dead network all degrade to the ordinal fallback upstream.

package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Namer produces up to count team names for a theme. Implementations may
// return fewer names than requested; callers must tolerate that.
type Namer interface {
	TeamNames(ctx context.Context, count int, theme string) ([]string, error)
}

// ErrUnavailable reports that the namer has no API key configured and
// cannot be called at all.
var ErrUnavailable = errors.New("naming: no API key configured")

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 15 * time.Second
)

// Client talks to a Gemini-style generateContent endpoint and asks for a
// JSON array of strings.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at an alternate endpoint, which tests use
// to aim at an httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel selects the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient builds a namer for the given API key. An empty key is allowed;
// the client then reports ErrUnavailable on every call.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Available reports whether the client can be called at all.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// TeamNames asks the model for count creative team names around theme and
// parses the reply as a JSON string array. Any transport or parse failure
// returns a nil slice with the error; results longer than count are
// truncated.
func (c *Client) TeamNames(ctx context.Context, count int, theme string) ([]string, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	if count < 1 {
		return nil, nil
	}
	prompt := fmt.Sprintf(
		"Generate %d creative team names around the theme %q. Respond with a JSON array of strings only.",
		count, theme,
	)
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config:   genConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("naming: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("naming: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naming: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("naming: unexpected status %s", resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("naming: read response: %w", err)
	}
	var decoded generateResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("naming: decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("naming: empty response")
	}

	text := decoded.Candidates[0].Content.Parts[0].Text
	var names []string
	if err := json.Unmarshal([]byte(text), &names); err != nil {
		return nil, fmt.Errorf("naming: response is not a string array: %w", err)
	}
	if len(names) > count {
		names = names[:count]
	}
	return names, nil
}
