// Package llm is the client for the local inference endpoint. The endpoint
// speaks the Ollama /api/generate protocol, but deployed versions have
// answered with several different body shapes over time, so the reply
// decoding is deliberately defensive.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"askbuilding/internal/config"
	"askbuilding/internal/utils"
)

// Client talks to an Ollama-compatible generate endpoint.
type Client struct {
	baseURL    string
	model      string
	maxTokens  int
	temp       float64
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// New creates a client from configuration.
func New(cfg *config.OllamaConfig, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:   cfg.URL,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		temp:      cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateReply covers every reply shape the endpoint has produced: a direct
// response string (current Ollama), a result string, a list of content
// blocks, an OpenAI-style choices array, and a raw text fallback. Decoding
// into one struct keeps the shape union explicit instead of probing untyped
// maps.
type generateReply struct {
	Response string `json:"response"`
	Result   string `json:"result"`
	Output   []struct {
		Content string `json:"content"`
	} `json:"output"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Text string `json:"text"`
}

// text picks the first populated field, in shape-priority order.
func (r *generateReply) text() (string, bool) {
	if r.Response != "" {
		return r.Response, true
	}
	if r.Result != "" {
		return r.Result, true
	}
	for _, o := range r.Output {
		if o.Content != "" {
			return o.Content, true
		}
	}
	if len(r.Choices) > 0 && r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content, true
	}
	if r.Text != "" {
		return r.Text, true
	}
	return "", false
}

// GenerateQuery sends a prompt and returns the generated query text with any
// markdown fencing stripped. A non-2xx status or transport failure returns an
// error immediately; there is no retry.
func (c *Client) GenerateQuery(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temp,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("inference request failed with status %d: %s", resp.StatusCode, utils.TruncateString(string(body), 200))
	}

	var reply generateReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to decode inference response: %w", err)
	}

	text, ok := reply.text()
	if !ok {
		// Last resort: treat the whole body as the answer, matching how the
		// endpoint behaved before it returned JSON consistently.
		text = string(body)
	}

	query := utils.ExtractQueryText(text)
	if query == "" {
		return "", fmt.Errorf("inference endpoint returned an empty reply")
	}

	c.log.Debugw("generated query", "model", c.model, "chars", len(query))
	return query, nil
}
