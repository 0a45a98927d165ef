// Package api is the console's only door to the REST backend.
//
// Every call goes through Client.Do, which attaches the bearer token when the
// request needs one, unwraps the {success,data,msg} envelope and classifies
// failures as *TransportError or *ApplicationError. Calls are fire-once: the
// client never retries.
package api

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

	"github.com/dmitrijs2005/shopadmin/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxBodySize = 16 << 20

// RequestIDHeader carries a per-call id for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the current bearer token, "" when logged out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	baseURL        *url.URL
	http           *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	group          singleflight.Group
	onUnauthorized func(ctx context.Context)
	logger         logging.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit paces outgoing requests; rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUnauthorizedHook registers fn to run whenever the server answers 401
// or an authenticated call is attempted without a token.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: TokenFunc(func() string { return "" }),
		logger: logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do performs req and decodes the envelope's data into out (when out is not
// nil and data is present). Identical concurrent GETs share one round trip.
//
// The returned envelope is non-nil whenever the server answered with a
// parsable body, including the *ApplicationError case.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Envelope, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var (
		env *Envelope
		err error
	)
	if req.Method == http.MethodGet && req.Form == nil {
		key := req.Path
		if req.Auth {
			key += "#" + c.tokens.Token()
		}
		v, doErr, _ := c.group.Do(key, func() (any, error) {
			return c.do(ctx, req)
		})
		env, _ = v.(*Envelope)
		err = doErr
	} else {
		env, err = c.do(ctx, req)
	}
	if err != nil {
		return env, err
	}

	if out != nil && env.HasData() {
		if err := env.Decode(out); err != nil {
			return env, err
		}
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, req Request) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, contentType, err := req.encode()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.endpoint(req.Path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, reqID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Auth {
		token := c.tokens.Token()
		if token == "" {
			c.unauthorized(ctx)
			return nil, &TransportError{Status: http.StatusUnauthorized, Err: ErrNoToken}
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug(ctx, "request failed", "method", req.Method, "path", req.Path, "request_id", reqID, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug(ctx, "request done",
		"method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tErr := &TransportError{Status: resp.StatusCode}
		if decodeErr == nil {
			tErr.Msg = env.Msg
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.unauthorized(ctx)
		}
		return nil, tErr
	}

	if decodeErr != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if !env.Success {
		return &env, &ApplicationError{Msg: env.Msg}
	}
	return &env, nil
}

// Ping reports whether the API origin answers at all. Any HTTP status counts
// as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) unauthorized(ctx context.Context) {
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

// PathEscape joins path segments, escaping each one.
func PathEscape(segments ...string) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
