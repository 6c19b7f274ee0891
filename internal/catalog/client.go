package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Backend is the catalog API consumed by the UI and the CLI. *Client
// implements it; tests substitute fakes.
type Backend interface {
	ListBooks(ctx context.Context, category string) ([]Book, error)
	RecentBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, token string, in BookInput) error
	UpdateBook(ctx context.Context, token, id string, patch BookPatch) error
	DeleteBook(ctx context.Context, token, id string) error
	SignIn(ctx context.Context, email, password string) (SignInResult, error)
	SignUp(ctx context.Context, in SignUpInput) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	now       func() time.Time
	limiter   *rate.Limiter
	log       *zap.Logger
}

const (
	defaultBaseURL   = "https://dav08library.onrender.com"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 15 * time.Second
	maxResponseBytes = 4 << 20

	// RequestIDHeader carries a per-request id for backend log correlation.
	RequestIDHeader = "X-Request-ID"
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithClock sets the clock used for cache-busting tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRateLimit paces outgoing requests to perSecond with a burst of one.
// Zero or negative disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a Client for the backend at base (scheme://host[:port]).
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListBooks returns all books, filtered server-side by category unless
// category is empty or the All Books sentinel.
func (c *Client) ListBooks(ctx context.Context, category string) ([]Book, error) {
	values := url.Values{}
	if !IsFilterAll(category) {
		values.Set("category", strings.TrimSpace(category))
	}
	var payload envelope[[]Book]
	if err := c.get(ctx, &url.URL{Path: "/api/v1/get-all-books"}, values, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// RecentBooks returns the most recently added books.
func (c *Client) RecentBooks(ctx context.Context) ([]Book, error) {
	var payload envelope[[]Book]
	if err := c.get(ctx, &url.URL{Path: "/api/v1/get-recent-books"}, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetBook fetches one book. A 404 or an empty record yields ErrNotFound.
func (c *Client) GetBook(ctx context.Context, id string) (Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Book{}, fmt.Errorf("book id required")
	}
	var payload envelope[*Book]
	err := c.get(ctx, pathURL("/api/v1/get-book-by-id/", id), url.Values{}, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Book{}, err
	}
	if payload.Data == nil || payload.Data.ID == "" {
		return Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *payload.Data, nil
}

// CreateBook adds a book. Requires an admin token.
func (c *Client) CreateBook(ctx context.Context, token string, in BookInput) error {
	const path = "/api/v1/add-book"
	var payload envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: path}, token, in, &payload); err != nil {
		return err
	}
	return requireSuccess(path, payload.Status, payload.Message)
}

// UpdateBook applies a partial update. Requires an admin token.
func (c *Client) UpdateBook(ctx context.Context, token, id string, patch BookPatch) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("book id required")
	}
	rel := pathURL("/api/v1/update-book/", id)
	var payload envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPut, rel, token, patch, &payload); err != nil {
		return err
	}
	return requireSuccess(rel.Path, payload.Status, payload.Message)
}

// DeleteBook removes a book. Requires an admin token.
func (c *Client) DeleteBook(ctx context.Context, token, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("book id required")
	}
	return c.do(ctx, http.MethodDelete, pathURL("/api/v1/delete-book/", id), token, nil, nil)
}

// SignIn exchanges credentials for a bearer token, identity and role.
func (c *Client) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	const path = "/api/v1/sign-in"
	body := map[string]string{"email": email, "password": password}
	var payload signInResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: path}, "", body, &payload); err != nil {
		return SignInResult{}, err
	}
	if payload.Token == "" {
		return SignInResult{}, &APIError{Path: path, StatusCode: http.StatusOK, Message: payload.Message}
	}
	return payload.SignInResult, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, in SignUpInput) error {
	const path = "/api/v1/sign-up"
	var payload envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: path}, "", in, &payload); err != nil {
		return err
	}
	if payload.Success == nil || !*payload.Success {
		return &APIError{Path: path, StatusCode: http.StatusOK, Message: payload.Message}
	}
	return nil
}

func requireSuccess(path, status, message string) error {
	if status != statusSuccess {
		return &APIError{Path: path, StatusCode: http.StatusOK, Message: message}
	}
	return nil
}

// get issues a cache-busted read.
func (c *Client) get(ctx context.Context, rel *url.URL, values url.Values, dest any) error {
	values.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
	rel.RawQuery = encodeQuery(values)
	return c.do(ctx, http.MethodGet, rel, "", nil, dest)
}

// pathURL appends a single escaped path segment to prefix.
func pathURL(prefix, segment string) *url.URL {
	return &url.URL{
		Path:    prefix + segment,
		RawPath: prefix + url.PathEscape(segment),
	}
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, token string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", rel.Path),
			zap.Error(err))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", req.Header.Get(RequestIDHeader)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &failure)
		return &APIError{Path: rel.Path, StatusCode: resp.StatusCode, Message: failure.Message}
	}
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// encodeQuery escapes spaces as %20 rather than '+'.
func encodeQuery(values url.Values) string {
	return strings.ReplaceAll(values.Encode(), "+", "%20")
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", base)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
