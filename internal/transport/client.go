// Package transport is the HTTP client every API call goes through. It
// resolves endpoints against one base URL, attaches the session token,
// applies the per-attempt timeout and fixed retry policy, and normalises
// failures into domain.AppError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/session"
)

const (
	// RequestIDHeader carries the id shared by every attempt of one call.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 64 << 20

	uploadTimeoutFactor         = 2
	uploadMultipleTimeoutFactor = 3
)

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string
	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
}

// ConfigFromAPI converts the validated api configuration section.
func ConfigFromAPI(c config.APIConfig) Config {
	cfg := Config{
		BaseURL:    c.BaseURL,
		Timeout:    c.TimeoutDuration(),
		MaxRetries: c.MaxRetries,
		RetryDelay: c.RetryDelayDuration(),
		UserAgent:  c.UserAgent,
	}
	if c.RateLimit.Enabled {
		cfg.RateLimit = c.RateLimit.RPS
		cfg.Burst = c.RateLimit.Burst
	}
	return cfg
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRegisterer registers the client counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.registerer = reg }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client issues requests against one backend. It is safe for concurrent use.
type Client struct {
	cfg        Config
	session    *session.Session
	http       *http.Client
	limiter    *rate.Limiter
	registerer prometheus.Registerer
	metrics    *metrics
	logger     *slog.Logger
}

// New creates a Client. sess may be nil for anonymous use.
func New(cfg Config, sess *session.Session, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("transport: base URL is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("transport: timeout must be positive")
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.New("transport: max retries must not be negative")
	}
	if cfg.RetryDelay < 0 {
		return nil, errors.New("transport: retry delay must not be negative")
	}

	c := &Client{cfg: cfg, session: sess}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.session == nil {
		c.session = session.New(nil, c.logger)
	}
	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	c.metrics = newMetrics(c.registerer)
	return c, nil
}

// Session returns the session whose token the client sends.
func (c *Client) Session() *session.Session {
	return c.session
}

// Request describes one logical API call.
type Request struct {
	Method   string
	Endpoint string
	Params   Params
	// Body is JSON-encoded unless it is []byte or io.Reader, which are sent
	// as-is with the caller's Content-Type header.
	Body   any
	Header http.Header

	multipart     *multipartBody
	timeoutFactor int
}

// Get sends a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, endpoint string, params Params, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Endpoint: endpoint, Params: params}, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body any, params Params, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Endpoint: endpoint, Params: params, Body: body}, out)
}

// Put sends body as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, endpoint string, body any, params Params, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Endpoint: endpoint, Params: params, Body: body}, out)
}

// Patch sends body as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, params Params, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Endpoint: endpoint, Params: params, Body: body}, out)
}

// Delete sends a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, endpoint string, params Params, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Endpoint: endpoint, Params: params}, out)
}

// Upload posts one file as multipart/form-data under the "file" field, plus
// fields as extra form values. The per-attempt timeout is doubled.
func (c *Client) Upload(ctx context.Context, endpoint string, file File, fields map[string]string, out any) error {
	if file.FieldName == "" {
		file.FieldName = "file"
	}
	return c.Do(ctx, &Request{
		Method:        http.MethodPost,
		Endpoint:      endpoint,
		multipart:     &multipartBody{files: []File{file}, fields: fields},
		timeoutFactor: uploadTimeoutFactor,
	}, out)
}

// UploadMultiple posts files as multipart/form-data, each under the "files"
// field unless it names its own. The per-attempt timeout is tripled.
func (c *Client) UploadMultiple(ctx context.Context, endpoint string, files []File, fields map[string]string, out any) error {
	parts := make([]File, len(files))
	for i, f := range files {
		if f.FieldName == "" {
			f.FieldName = "files"
		}
		parts[i] = f
	}
	return c.Do(ctx, &Request{
		Method:        http.MethodPost,
		Endpoint:      endpoint,
		multipart:     &multipartBody{files: parts, fields: fields},
		timeoutFactor: uploadMultipleTimeoutFactor,
	}, out)
}

// Download returns the raw response body of a GET request.
func (c *Client) Download(ctx context.Context, endpoint string, params Params) ([]byte, error) {
	var data []byte
	err := c.Do(ctx, &Request{
		Method:   http.MethodGet,
		Endpoint: endpoint,
		Params:   params,
		Header:   http.Header{"Accept": []string{"*/*"}},
	}, &data)
	return data, err
}

// Do executes r with the retry policy and decodes a successful response into
// out. out may be nil to discard the body, or *[]byte to receive it raw.
func (c *Client) Do(ctx context.Context, r *Request, out any) error {
	target, err := c.ResolveURL(r.Endpoint, r.Params)
	if err != nil {
		return domain.NewClientError(err)
	}
	payload, contentType, err := r.encode()
	if err != nil {
		return domain.NewClientError(err)
	}

	requestID := uuid.NewString()
	attempts := c.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.metrics.retries.WithLabelValues(r.Method).Inc()
			c.logger.WarnContext(ctx, "retrying request",
				slog.String("method", r.Method),
				slog.String("endpoint", r.Endpoint),
				slog.String("request_id", requestID),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.Any("error", lastErr),
			)
			if err := wait(ctx, c.cfg.RetryDelay); err != nil {
				break
			}
		}

		lastErr = c.attempt(ctx, r, target, payload, contentType, requestID, out)
		if lastErr == nil {
			c.metrics.requests.WithLabelValues(r.Method, outcomeSuccess).Inc()
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}

	c.metrics.requests.WithLabelValues(r.Method, outcomeError).Inc()
	return lastErr
}

// attempt performs one HTTP exchange bounded by the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, r *Request, target string, payload []byte, contentType, requestID string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewClientError(err)
		}
	}

	factor := max(r.timeoutFactor, 1)
	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout*time.Duration(factor))
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, r.Method, target, body)
	if err != nil {
		return domain.NewClientError(err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	switch {
	case r.multipart != nil:
		req.Header.Set("Content-Type", contentType)
	case req.Header.Get("Content-Type") == "":
		req.Header.Set("Content-Type", "application/json")
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
	}
	req.Header.Set(RequestIDHeader, requestID)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	token := c.session.Token(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewClientError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.NewClientError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.session.Invalidate(ctx, token) {
			c.metrics.invalidations.Inc()
		}
		return statusError(resp.StatusCode, data)
	}
	return decode(data, out)
}

// ResolveURL joins endpoint with the base URL, or uses it verbatim when it is
// already absolute, and appends the encoded params.
func (c *Client) ResolveURL(endpoint string, params Params) (string, error) {
	var u string
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		u = endpoint
	} else {
		u = strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	}
	// Server-resolved file URLs may carry unescaped spaces.
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	parsed.RawQuery = strings.ReplaceAll(parsed.RawQuery, " ", "%20")
	u = parsed.String()

	if q := params.Encode(); q != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + q
	}
	return u, nil
}

// encode returns the request payload and, for multipart bodies, its content type.
func (r *Request) encode() ([]byte, string, error) {
	if r.multipart != nil {
		return r.multipart.encode()
	}
	switch b := r.Body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "", nil
	}
}

func decode(data []byte, out any) error {
	switch t := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*t = data
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewAppError(domain.CodeUnknown, "failed to decode response", err)
	}
	return nil
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
