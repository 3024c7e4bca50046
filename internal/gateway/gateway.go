// Package gateway is the authenticated request layer between the console and
// the REST backend. It attaches the bearer token, sends exactly one request
// per call, and normalizes every outcome into a JSON body or one of two
// error kinds. It never touches session or UI state.
package gateway

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

	"github.com/google/uuid"

	"github.com/kingrea/staffdesk/internal/logging"
	"github.com/kingrea/staffdesk/internal/session"
)

const (
	// RequestIDHeader is stamped on every outgoing request.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 8 << 20
)

var nullBody = json.RawMessage("null")

// Client sends requests to the backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Printer
	requestID  func() string
	maxBody    int64
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger traces one line per request.
func WithLogger(l logging.Printer) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestIDs overrides the request id generator (primarily for tests).
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) {
		if gen != nil {
			c.requestID = gen
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New builds a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.Nop{},
		requestID:  uuid.NewString,
		maxBody:    defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Get fetches path on behalf of actor.
func (c *Client) Get(ctx context.Context, path string, actor session.Actor) (json.RawMessage, error) {
	return c.authed(ctx, http.MethodGet, path, actor, nil)
}

// Post sends body to path on behalf of actor.
func (c *Client) Post(ctx context.Context, path string, actor session.Actor, body any) (json.RawMessage, error) {
	return c.authed(ctx, http.MethodPost, path, actor, body)
}

// Put replaces the resource at path on behalf of actor.
func (c *Client) Put(ctx context.Context, path string, actor session.Actor, body any) (json.RawMessage, error) {
	return c.authed(ctx, http.MethodPut, path, actor, body)
}

// Del deletes the resource at path on behalf of actor.
func (c *Client) Del(ctx context.Context, path string, actor session.Actor) (json.RawMessage, error) {
	return c.authed(ctx, http.MethodDelete, path, actor, nil)
}

// Authenticate posts credentials without a bearer token. Only login uses it.
func (c *Client) Authenticate(ctx context.Context, path string, credentials any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, "", credentials)
}

func (c *Client) authed(ctx context.Context, method, path string, actor session.Actor, body any) (json.RawMessage, error) {
	if strings.TrimSpace(actor.Token) == "" {
		return nil, fmt.Errorf("gateway: %s %s: %w: token missing", method, path, session.ErrUnauthenticated)
	}
	return c.do(ctx, method, path, actor.Token, body)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: %s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: build request: %w", method, path, err)
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("gateway: %s %s unreachable after %s request_id=%s: %v", method, path, time.Since(start).Round(time.Millisecond), requestID, err)
		return nil, &UnreachableError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.logger.Printf("gateway: %s %s body read failed request_id=%s: %v", method, path, requestID, err)
		return nil, &UnreachableError{Method: method, Path: path, Err: err}
	}
	c.logger.Printf("gateway: %s %s -> %d in %s request_id=%s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	oversized := int64(len(raw)) > c.maxBody
	if oversized {
		raw = raw[:c.maxBody]
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestFailedError{Method: method, Path: path, Status: resp.StatusCode, Body: raw}
	}
	if oversized {
		return nil, &RequestFailedError{Method: method, Path: path, Status: resp.StatusCode, Body: raw,
			Reason: fmt.Sprintf("response body exceeds %d bytes", c.maxBody)}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nullBody, nil
	}
	if !json.Valid(raw) {
		return nil, &RequestFailedError{Method: method, Path: path, Status: resp.StatusCode, Body: raw,
			Reason: "response body is not JSON"}
	}
	return json.RawMessage(raw), nil
}

func (c *Client) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("gateway: path %q must start with /", path)
	}
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("gateway: parse path %q: %w", path, err)
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + rel.Path
	u.RawPath = ""
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}
