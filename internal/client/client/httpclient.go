package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/aiapi"
	"github.com/dmitrijs2005/noteflow/internal/auth"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/netx"
)

// ClientID is the subject the CLI puts into its bearer tokens.
const ClientID = "noteflow-cli"

const (
	tokenValidity = 15 * time.Minute
	// tokens are reissued this long before they expire
	tokenSkew = 30 * time.Second
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	secret  []byte

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewHTTPClient returns a client for the AI server at endpoint. A bare
// host:port gets an http scheme. With an empty secret no Authorization
// header is sent.
func NewHTTPClient(endpoint string, secret []byte, timeout time.Duration) *HTTPClient {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(endpoint, "/"),
		http:    &http.Client{Timeout: timeout},
		secret:  secret,
	}
}

func (c *HTTPClient) accessToken(force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.token != "" && time.Until(c.tokenExp) > tokenSkew {
		return c.token, nil
	}

	tok, err := auth.GenerateToken(ClientID, c.secret, tokenValidity)
	if err != nil {
		return "", err
	}
	c.token = tok
	c.tokenExp = time.Now().Add(tokenValidity)
	return tok, nil
}

func (c *HTTPClient) header(force bool) (http.Header, error) {
	h := http.Header{}
	if len(c.secret) == 0 {
		return h, nil
	}
	tok, err := c.accessToken(force)
	if err != nil {
		return nil, err
	}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	return h, nil
}

// post sends one request. A 401 is retried once with a freshly issued token.
func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	h, err := c.header(false)
	if err != nil {
		return err
	}

	err = netx.PostJSON(ctx, c.http, c.baseURL+path, h, in, out)

	var se *netx.StatusError
	if errors.As(err, &se) && se.Code == http.StatusUnauthorized && len(c.secret) > 0 {
		if h, err = c.header(true); err != nil {
			return err
		}
		err = netx.PostJSON(ctx, c.http, c.baseURL+path, h, in, out)
	}

	return c.mapError(err)
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	switch {
	case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, se.Message)
	case se.Code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, se.Message)
	case se.Code == http.StatusTooManyRequests || se.Code >= 500:
		return fmt.Errorf("%w: %w", common.ErrorUnavailable, se)
	default:
		return fmt.Errorf("ai server: %w", se)
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %s", common.ErrorUnavailable, resp.Status)
	}
	return nil
}

func (c *HTTPClient) Summarize(ctx context.Context, content string) (string, error) {
	var resp aiapi.SummarizeResponse
	if err := c.post(ctx, aiapi.SummarizePath, aiapi.SummarizeRequest{Content: content}, &resp); err != nil {
		return "", err
	}
	if resp.Summary == "" {
		return "", fmt.Errorf("empty summary: %w", common.ErrorInternal)
	}
	return resp.Summary, nil
}

func (c *HTTPClient) Tags(ctx context.Context, title, content string) ([]string, error) {
	var resp aiapi.TagsResponse
	if err := c.post(ctx, aiapi.TagsPath, aiapi.TagsRequest{Title: title, Content: content}, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

func (c *HTTPClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var resp aiapi.TranslateResponse
	req := aiapi.TranslateRequest{Text: text, TargetLanguage: targetLanguage}
	if err := c.post(ctx, aiapi.TranslatePath, req, &resp); err != nil {
		return "", err
	}
	if resp.Translation == "" {
		return "", fmt.Errorf("empty translation: %w", common.ErrorInternal)
	}
	return resp.Translation, nil
}
