package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/netx"
	"golang.org/x/time/rate"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion. Op labels the call in metrics.
type Options struct {
	Op          string
	MaxTokens   int
	Temperature float64
}

// Completer runs one chat completion and returns the first choice's text,
// which may be empty.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// GroqClient speaks the OpenAI-compatible chat completions API.
type GroqClient struct {
	url     string
	apiKey  string
	model   string
	http    *http.Client
	limiter *rate.Limiter
	rec     Recorder
}

// NewGroqClient returns a client for baseURL (e.g.
// "https://api.groq.com/openai/v1"). A nil limiter disables rate limiting.
func NewGroqClient(baseURL, apiKey, model string, timeout time.Duration, limiter *rate.Limiter, rec Recorder) *GroqClient {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &GroqClient{
		url:     strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		rec:     rec,
	}
}

func (c *GroqClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.rec.ObserveUpstream(opts.Op, "throttled", 0)
			return "", errors.Join(common.ErrorUnavailable, err)
		}
	}

	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.apiKey)

	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	start := time.Now()
	var resp chatResponse
	err := netx.PostJSON(ctx, c.http, c.url, h, req, &resp)
	elapsed := time.Since(start)

	if err != nil {
		c.rec.ObserveUpstream(opts.Op, "error", elapsed)
		return "", err
	}
	c.rec.ObserveUpstream(opts.Op, "ok", elapsed)

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
