package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	ai "github.com/xpand-io/bedrockai"
)

// HTTPToolOption configures the HTTP fetch tool.
type HTTPToolOption func(*httpToolConfig)

type httpToolConfig struct {
	client          *http.Client
	allowedHosts    []string
	maxResponseSize int64
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.client = c
	}
}

// WithAllowedHosts restricts requests to the given hosts. An empty list
// allows any host.
func WithAllowedHosts(hosts ...string) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithMaxResponseSize caps the response body size in bytes. Default 1MB.
func WithMaxResponseSize(n int64) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.maxResponseSize = n
	}
}

type httpGetArgs struct {
	URL string `json:"url" desc:"The URL to fetch" required:"true"`
}

// NewHTTPGetTool creates an http_get tool that fetches a URL and returns the
// status and body to the model.
func NewHTTPGetTool(opts ...HTTPToolOption) (ai.Tool, Handler) {
	cfg := &httpToolConfig{
		client:          &http.Client{Timeout: 15 * time.Second},
		maxResponseSize: 1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return MustBind("http_get", "Fetch a URL with an HTTP GET request",
		func(ctx context.Context, args httpGetArgs) (any, error) {
			u, err := url.Parse(args.URL)
			if err != nil {
				return nil, fmt.Errorf("invalid url %q: %w", args.URL, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
			}
			if len(cfg.allowedHosts) > 0 && !hostAllowed(u.Hostname(), cfg.allowedHosts) {
				return nil, fmt.Errorf("host %q is not allowed", u.Hostname())
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
			if err != nil {
				return nil, err
			}
			resp, err := cfg.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.maxResponseSize))
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"status":      resp.StatusCode,
				"contentType": resp.Header.Get("Content-Type"),
				"body":        string(body),
			}, nil
		})
}

func hostAllowed(host string, allowed []string) bool {
	for _, h := range allowed {
		if host == h {
			return true
		}
	}
	return false
}
