// Package github lists public repositories of a GitHub account.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devconnector/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// ErrNotFound is returned for any non-2xx answer from GitHub.
var ErrNotFound = errors.New("github profile not found")

const (
	userAgent    = "devconnector-api"
	maxBodyBytes = 1 << 20
)

// Config carries the optional OAuth app credentials and transport settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client calls the GitHub REST API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// NewClient returns a Client; a zero Timeout means ten seconds.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         &http.Client{Timeout: timeout},
	}
}

// Repos returns the five oldest-created public repositories of username as
// the raw JSON array GitHub sent. One attempt, no caching.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	ctx, span := observability.StartClientSpan(ctx, "github.repos",
		attribute.String("github.username", username))
	body, err := c.repos(ctx, username)
	if errors.Is(err, ErrNotFound) {
		observability.EndSpan(span, nil)
	} else {
		observability.EndSpan(span, err)
	}
	switch {
	case err == nil:
		observability.GithubRequests.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrNotFound):
		observability.GithubRequests.WithLabelValues("not_found").Inc()
	default:
		observability.GithubRequests.WithLabelValues("error").Inc()
	}
	return body, err
}

func (c *Client) repos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.clientID != "" && c.clientSecret != "" {
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, ErrNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
