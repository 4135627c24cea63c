package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logpkg "github.com/swiftype/app-search-go/internal/logger"
)

// Config configures a REST client.
type Config struct {
	// BaseURL is the API root, e.g. https://host-xxx.api.swiftype.com/api/v1.
	BaseURL string
	// APIKey is sent as a Bearer token on every request.
	APIKey string
	// UserAgent is sent as the User-Agent header when non-empty.
	UserAgent string
	// HTTPClient performs the requests. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Client sends authenticated JSON requests relative to a base URL.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	userAgent string
	http      *http.Client
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL; segments must already be escaped.
	Path string
	// Query values are styled per encodeQuery.
	Query map[string]any
	// Body is marshaled as JSON when non-nil.
	Body any
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must use http or https scheme, got %q", u.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:   u,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		http:      hc,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do executes req and decodes a 2xx JSON body into out (if out is non-nil and
// the body is non-empty).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	endpoint, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return err
	}

	var bodyReader io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	log := logpkg.FromContext(ctx).With(
		zap.String("method", req.Method),
		zap.String("url", endpoint),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Debug("http request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", req.Method, endpoint, err)
	}

	log.Debug("http request",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(req.Method, endpoint, resp.StatusCode, respBody)
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", req.Method, endpoint, err)
		}
	}
	return nil
}

func (c *Client) buildURL(path string, query map[string]any) (string, error) {
	raw := c.baseURL.EscapedPath() + "/" + strings.TrimLeft(path, "/")
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path, u.RawPath = unescaped, raw

	values, err := encodeQuery(query)
	if err != nil {
		return "", err
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}
