package appsearch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swiftype/app-search-go/internal/metrics"
	"github.com/swiftype/app-search-go/internal/transport/rest"
	"github.com/swiftype/app-search-go/internal/version"
)

const defaultTimeout = 30 * time.Second

// Client is the App Search entry point. It is immutable after New and safe
// for concurrent use to the extent its *http.Client is.
type Client struct {
	rest *rest.Client
	obs  *observer
}

// BaseURL returns the API root for an account host key.
func BaseURL(accountHostKey string) string {
	return "https://" + accountHostKey + ".api.swiftype.com/api/v1"
}

// New creates a Client. Both the account host key and the API key are
// required.
func New(accountHostKey, apiKey string, opts ...Option) (*Client, error) {
	if accountHostKey == "" {
		return nil, errors.New("appsearch: account host key required")
	}
	if apiKey == "" {
		return nil, errors.New("appsearch: api key required")
	}

	cfg := &clientConfig{
		baseURL:   BaseURL(accountHostKey),
		timeout:   defaultTimeout,
		userAgent: version.UserAgent(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.metricsReg != nil {
		tm, err := metrics.NewTransport(cfg.metricsReg)
		if err != nil {
			return nil, err
		}
		instrumented := *hc
		instrumented.Transport = tm.RoundTripper(hc.Transport)
		hc = &instrumented
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.tracerProvider)
	if err != nil {
		return nil, err
	}

	rc, err := rest.New(rest.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     apiKey,
		UserAgent:  cfg.userAgent,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, fmt.Errorf("appsearch: %w", err)
	}

	return &Client{rest: rc, obs: obs}, nil
}

// BaseURL returns the API root this client sends requests to.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL()
}

// enginePath builds engines/{name}[/suffix...] with escaped segments.
func enginePath(name string, suffix ...string) string {
	parts := append([]string{"engines", url.PathEscape(name)}, suffix...)
	return strings.Join(parts, "/")
}
