/*
Package groqservice wraps the Groq chat-completions endpoint behind a small
client. The pipeline treats it as an opaque text-completion service: prompt
in, free text out, or an error that the caller degrades from.
*/
package groqservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// --- Groq API Configuration ---
const (
	defaultAPIURL  = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel   = "llama3-8b-8192"
	requestTimeout = 30 * time.Second
	initialBackoff = 1 * time.Second

	// Groq API keys are issued with this prefix; anything else is a
	// misconfiguration we can reject before spending a network round trip.
	apiKeyPrefix = "gsk_"
)

// ErrNotConfigured marks a missing or malformed credential. The analysis
// pipeline treats it the same as a transport failure: fall back locally.
var ErrNotConfigured = errors.New("groq API key is missing or malformed")

// Options bounds a single completion request.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Completion is the successful result of a remote call.
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
	Latency    time.Duration
}

// Client issues completion requests. MaxRetries controls how many extra
// attempts are made before the caller falls back; the default of zero means
// a single attempt with immediate degrade.
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// --- Structs for the chat-completions request/response ---

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient builds a client with an explicit key and retry budget.
func NewClient(apiKey string, maxRetries int) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     defaultAPIURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: requestTimeout},
		maxRetries: maxRetries,
	}
}

// NewClientFromEnv reads GROQ_API_KEY, GROQ_API_URL, GROQ_MODEL and
// GROQ_MAX_RETRIES. Missing values fall back to defaults; key validation is
// deferred to the first Complete call so a misconfigured server still boots.
func NewClientFromEnv() *Client {
	c := NewClient(os.Getenv("GROQ_API_KEY"), 0)
	if url := os.Getenv("GROQ_API_URL"); url != "" {
		c.apiURL = url
	}
	if model := os.Getenv("GROQ_MODEL"); model != "" {
		c.model = model
	}
	if retries := os.Getenv("GROQ_MAX_RETRIES"); retries != "" {
		var n int
		if _, err := fmt.Sscanf(retries, "%d", &n); err == nil && n >= 0 {
			c.maxRetries = n
		}
	}
	return c
}

// validateKey rejects an absent or malformed credential before any I/O.
func (c *Client) validateKey() error {
	if c.apiKey == "" {
		log.Error().Msg("GROQ_API_KEY environment variable is not set")
		return ErrNotConfigured
	}
	if !strings.HasPrefix(c.apiKey, apiKeyPrefix) {
		log.Error().Msg("GROQ_API_KEY does not look like a Groq key (expected gsk_ prefix)")
		return ErrNotConfigured
	}
	return nil
}

// Complete sends one prompt to the completion endpoint and returns the first
// choice. Any transport error, non-2xx status, or empty completion is an
// error; with maxRetries > 0 failed attempts back off exponentially first.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	if err := c.validateKey(); err != nil {
		return Completion{}, err
	}

	payload := chatPayload{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := initialBackoff * time.Duration(math.Pow(2, float64(i-1)))
			log.Warn().Err(lastErr).Msgf("Attempt %d failed, retrying in %s", i, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return Completion{}, ctx.Err()
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		result, err := c.doRequest(reqCtx, payloadBytes)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}

	return Completion{}, fmt.Errorf("completion failed after %d attempt(s): %w", attempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, payloadBytes []byte) (Completion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return Completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("API returned non-2xx status: %s, Body: %s", resp.Status, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Completion{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return Completion{}, fmt.Errorf("no content found in completion response")
	}

	model := chatResp.Model
	if model == "" {
		model = c.model
	}

	return Completion{
		Text:       chatResp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: chatResp.Usage.TotalTokens,
		Latency:    latency,
	}, nil
}
