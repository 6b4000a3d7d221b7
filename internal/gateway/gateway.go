package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/logger"
)

// Policy bounds the retry behavior around one chat call. Tests inject a
// zero-delay policy.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

var DefaultPolicy = Policy{MaxAttempts: 3, Delay: time.Second}

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	policy Policy
	httpc  *http.Client
	log    *logrus.Entry
}

func New(cfg config.Config, policy Policy) *Client {
	return &Client{
		url:    cfg.LLMGatewayURL,
		apiKey: cfg.LLMAPIKey,
		model:  cfg.LLMModel,
		policy: policy,
		httpc:  &http.Client{Timeout: 60 * time.Second},
		log:    logger.Component("gateway"),
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests point it at a
// httptest server).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpc = h
	return c
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends a (system prompt, user content) pair and returns the model's
// text reply. Transport and 5xx failures are retried up to the policy's
// attempt bound with a constant inter-attempt delay; 4xx responses are not
// retried. Each retry and the final failure are logged as warnings so the
// caller's UI layer can surface progress.
func (c *Client) Chat(ctx context.Context, systemPrompt, userContent string, temperature float64) (string, error) {
	// identity mock keeps the whole chain runnable offline
	if os.Getenv("USE_MOCK_LLM") == "true" {
		return userContent, nil
	}
	if c.url == "" || c.apiKey == "" {
		return "", fmt.Errorf("llm gateway not configured")
	}

	payload, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: temperature,
	})

	var reply string
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			return fmt.Errorf("llm server error: status=%d body=%s", resp.StatusCode, truncate(body, 200))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("llm client error: status=%d body=%s", resp.StatusCode, truncate(body, 200)))
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("llm decode error: %w", err)
		}
		if parsed.Error != nil {
			return fmt.Errorf("llm error: %s", parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("llm returned no choices")
		}
		reply = parsed.Choices[0].Message.Content
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.policy.Delay), uint64(c.policy.MaxAttempts-1)),
		ctx,
	)
	notify := func(err error, _ time.Duration) {
		c.log.WithError(err).WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": c.policy.MaxAttempts,
		}).Warn("llm request failed, retrying")
	}
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		c.log.WithError(err).WithField("attempts", attempt).Error("llm request failed after retries")
		return "", fmt.Errorf("chat request failed after %d attempts: %w", attempt, err)
	}
	return reply, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
