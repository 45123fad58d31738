// Package api provides the chat-completion client used for the interviewer,
// evaluator and coach roles. OpenRouter speaks the OpenAI wire format.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TransportError wraps a timeout or connection failure to the completion
// service. No session state has been mutated when it is returned, so the
// same logical request is safe to resubmit.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion service %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message is one chat message in the request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Message Message `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewClient creates a completion client with a bounded request timeout.
func NewClient(baseURL, apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

// Complete sends the messages and returns the raw text of the first choice.
// Responses are requested as JSON objects; markdown fences that some models
// still wrap around the payload are stripped.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	request := chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Op: "request", Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}

	if parsed.Error != nil {
		return "", &TransportError{Op: "request", Err: fmt.Errorf("API error: %s", parsed.Error.Message)}
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return cleanJSONResponse(parsed.Choices[0].Message.Content), nil
}

// cleanJSONResponse removes markdown code fences from model output.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}
