// Package registryclient reads repositories and tags from a registry
// over the distribution HTTP API v2.
package registryclient

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

	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure Client implements out.RegistryClient.
var _ out.RegistryClient = (*Client)(nil)

const (
	defaultPageSize = 100
	maxPages        = 1000
)

// Client is an HTTP client for the registry API.
type Client struct {
	baseURL    *url.URL
	username   string
	password   string
	pageSize   int
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// NewClient creates a registry client for baseURL, e.g. http://localhost:5000.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid registry URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid registry URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:  u,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithBasicAuth sets registry credentials.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithPageSize sets the catalog page size.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// Host returns the registry host, e.g. localhost:5000.
func (c *Client) Host() string {
	return c.baseURL.Host
}

// ListRepositories walks every catalog page in registry order.
func (c *Client) ListRepositories(ctx context.Context) ([]string, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "registry",
		logging.FieldAction:  "ListRepositories",
	})
	log := logging.FromCtx(ctx)

	repositories := []string{}
	next := fmt.Sprintf("/v2/_catalog?n=%d", c.pageSize)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, domain.EngineFailure("list repositories", errors.New("catalog pagination did not terminate"))
		}

		resp, err := c.request(ctx, next)
		if err != nil {
			return nil, err
		}
		var body struct {
			Repositories []string `json:"repositories"`
		}
		if err := parseResponse(resp, &body); err != nil {
			return nil, wrapStatus("list repositories", err)
		}
		repositories = append(repositories, body.Repositories...)
		next = nextLink(resp.Header.Get("Link"))
	}

	log.Debug().Int("count", len(repositories)).Msg("repositories listed")
	return repositories, nil
}

// ListTags returns the tags of repository in registry order.
func (c *Client) ListTags(ctx context.Context, repository string) ([]string, error) {
	resp, err := c.request(ctx, "/v2/"+repository+"/tags/list")
	if err != nil {
		return nil, err
	}
	var body struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	if err := parseResponse(resp, &body); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, repository)
		}
		return nil, wrapStatus("list tags", err)
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	return body.Tags, nil
}

// request performs a GET against a registry path (with query).
func (c *Client) request(ctx context.Context, pathAndQuery string) (*http.Response, error) {
	ref, err := url.Parse(pathAndQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid registry path %q: %w", pathAndQuery, err)
	}
	target := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistryUnreachable, err)
	}
	return resp, nil
}

// statusError is a non-2xx registry response.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("registry returned %d: %s", e.code, e.message)
}

// parseResponse decodes a JSON body or turns a registry error envelope into a statusError.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var errResp struct {
			Errors []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		msg := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
			msg = errResp.Errors[0].Code + ": " + errResp.Errors[0].Message
		}
		return &statusError{code: resp.StatusCode, message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func wrapStatus(op string, err error) error {
	return domain.EngineFailure(op, err)
}

// nextLink extracts the target of a rel="next" Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}
	return ""
}
