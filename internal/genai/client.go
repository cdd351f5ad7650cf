// internal/genai/client.go

// Package genai is the HTTP client for the generative text provider plus the
// failure classification used to choose a fallback path. The client makes a
// single attempt per call; retry decisions belong to the caller.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"support-inbox/internal/common/logger"
)

// completionSchema validates the provider response shape before we trust it.
// A syntactically valid JSON body with a missing or mistyped text field is an
// InvalidRequest class failure, not a silent empty reply.
const completionSchema = `{
	"type": "object",
	"properties": {
		"text": {"type": "string"},
		"tokens_used": {"type": "integer", "minimum": 0}
	},
	"required": ["text"]
}`

// APIError is a non-2xx provider response. Status is the HTTP status code;
// Code and Message come from the provider error body when present.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("genai: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("genai: status %d", e.Status)
}

// Completion is one successful provider response.
type Completion struct {
	Text       string
	TokensUsed int
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	config *Config
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) (*Client, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(completionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile completion schema: %w", err)
	}

	return &Client{
		config: config,
		client: &http.Client{
			// No HTTP client timeout, rely only on context
		},
		schema: schema,
		logger: log.WithFields(map[string]interface{}{
			"component": "genai",
			"model":     config.Model,
		}),
	}, nil
}

// Complete makes one generation attempt. maxTokens and temperature of zero
// fall back to the configured defaults.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (*Completion, error) {
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}
	if temperature <= 0 {
		temperature = c.config.Temperature
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	requestBody := map[string]interface{}{
		"model":       c.config.Model,
		"system":      systemPrompt,
		"prompt":      userPrompt,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/v1/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseAPIError(resp.StatusCode, respBody)
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(respBody))
	if err != nil || !result.Valid() {
		return nil, &APIError{
			Status:  http.StatusOK,
			Code:    "malformed_response",
			Message: "response body does not match completion schema",
		}
	}

	var apiResponse struct {
		Text       string `json:"text"`
		TokensUsed int    `json:"tokens_used"`
	}
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		return nil, &APIError{
			Status:  http.StatusOK,
			Code:    "empty_completion",
			Message: "provider returned an empty completion",
		}
	}

	c.logger.Info("completion received", map[string]interface{}{
		"tokensUsed": apiResponse.TokensUsed,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Completion{
		Text:       strings.TrimSpace(apiResponse.Text),
		TokensUsed: apiResponse.TokensUsed,
	}, nil
}

func (c *Client) parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var errBody struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil {
		apiErr.Code = errBody.Error.Code
		apiErr.Message = errBody.Error.Message
	}
	if apiErr.Message == "" && len(body) > 0 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		apiErr.Message = msg
	}

	return apiErr
}
