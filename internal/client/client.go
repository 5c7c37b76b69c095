// Package client is the facade over the remote URL shortener API.
//
// Every operation is a single HTTP call. Failures are returned as *Error
// values whose kind (ErrNetwork, ErrValidation, ErrNotFound) can be checked
// with errors.Is; callers turn them into notifications.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linkdash/internal/domain/models"

	"go.uber.org/zap"
)

// API - operations of the URL shortener service used by the dashboard.
type API interface {
	// ListURLs returns every shortened URL in server order.
	ListURLs(ctx context.Context) ([]models.URLStats, error)
	// CreateURL shortens a single URL.
	CreateURL(ctx context.Context, req models.CreateRequest) (models.ShortenedURL, error)
	// CreateURLsBulk shortens several URLs in one call.
	CreateURLsBulk(ctx context.Context, reqs []models.CreateRequest) ([]models.ShortenedURL, error)
	// FetchStats returns a URL together with its click history.
	FetchStats(ctx context.Context, shortcode string) (models.URLStats, error)
	// DeleteURL removes a short URL.
	DeleteURL(ctx context.Context, shortcode string) error
}

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client implements API over HTTP.
type Client struct {
	http    *http.Client
	sugar   *zap.SugaredLogger
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, timeout time.Duration, sugar *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		sugar:   sugar,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListURLs implements API.
func (c *Client) ListURLs(ctx context.Context) ([]models.URLStats, error) {
	var list models.URLList
	if err := c.do(ctx, "list urls", http.MethodGet, "/api/urls", nil, &list); err != nil {
		return nil, err
	}
	if list.URLs == nil {
		list.URLs = []models.URLStats{}
	}
	return list.URLs, nil
}

// CreateURL implements API.
func (c *Client) CreateURL(ctx context.Context, req models.CreateRequest) (models.ShortenedURL, error) {
	var created models.ShortenedURL
	err := c.do(ctx, "create url", http.MethodPost, "/shorten", req, &created)
	return created, err
}

// CreateURLsBulk implements API.
func (c *Client) CreateURLsBulk(ctx context.Context, reqs []models.CreateRequest) ([]models.ShortenedURL, error) {
	var created []models.ShortenedURL
	if err := c.do(ctx, "create urls", http.MethodPost, "/shorten/bulk", reqs, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// FetchStats implements API.
func (c *Client) FetchStats(ctx context.Context, shortcode string) (models.URLStats, error) {
	var stats models.URLStats
	err := c.do(ctx, "fetch stats", http.MethodGet, "/api/stats/"+url.PathEscape(shortcode), nil, &stats)
	return stats, err
}

// DeleteURL implements API.
func (c *Client) DeleteURL(ctx context.Context, shortcode string) error {
	return c.do(ctx, "delete url", http.MethodDelete, "/api/urls/"+url.PathEscape(shortcode), nil, nil)
}

// do sends the request and decodes a 2xx body into out (when out is not nil).
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Kind: ErrNetwork, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.sugar.Errorw("api request failed", "method", method, "path", path, "error", err)
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	defer func() {
		if e := resp.Body.Close(); e != nil {
			c.sugar.Errorf("resp.Body.Close() error: %v", e)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Status: resp.StatusCode, Err: err}
	}

	c.sugar.Debugw("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &Error{
			Op:     op,
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: parseDetail(data),
		}
		c.sugar.Errorw("api request rejected", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
