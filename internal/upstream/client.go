package upstream

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

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/sony/gobreaker"
)

// Failure reasons, also used as the reason label of the fallback counter.
const (
	ReasonUnconfigured = "unconfigured"
	ReasonTransport    = "transport"
	ReasonStatus       = "status"
	ReasonDecode       = "decode"
	ReasonCircuitOpen  = "circuit_open"
)

const maxBodyBytes = 32 << 20

// errCallerGone marks failures caused by the caller's own context, which
// say nothing about the upstream's health.
var errCallerGone = errors.New("caller context done")

// Error describes why an upstream call could not produce a value.
type Error struct {
	Op         string
	Reason     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("upstream %s: %s", e.Op, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ReasonOf extracts the failure reason of err, or "" when err is not an *Error.
func ReasonOf(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ""
}

// Client talks to the core bid-tracking API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker
	fallbackDelay time.Duration
}

// NewClient builds a client from config. An empty base URL yields a client
// whose every call fails with ReasonUnconfigured.
func NewClient(cfg config.UpstreamConfig) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		fallbackDelay: cfg.FallbackDelay,
	}
	if cfg.BreakerFailures > 0 {
		failures := uint32(cfg.BreakerFailures)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "upstream",
			MaxRequests: 1,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errCallerGone)
			},
		})
	}
	return c
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// State is the circuit breaker state, "disabled" without a breaker.
func (c *Client) State() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}

// Request is one call to the upstream API. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type rawReply struct {
	body   []byte
	header http.Header
}

// call performs req, passing through the breaker when one is configured.
func (c *Client) call(ctx context.Context, op string, req Request) (*rawReply, error) {
	if !c.Configured() {
		return nil, &Error{Op: op, Reason: ReasonUnconfigured}
	}
	if c.breaker == nil {
		return c.roundTrip(ctx, op, req)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		reply, err := c.roundTrip(ctx, op, req)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return reply, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &Error{Op: op, Reason: ReasonCircuitOpen, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return out.(*rawReply), nil
}

func (c *Client) roundTrip(ctx context.Context, op string, req Request) (*rawReply, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{Op: op, Reason: ReasonDecode, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &Error{Op: op, Reason: ReasonTransport, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: op, Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Op: op, Reason: ReasonTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}
	return &rawReply{body: data, header: resp.Header}, nil
}

// Fetch performs a GET and decodes the data field of the response envelope.
func Fetch[T any](ctx context.Context, c *Client, op, path string, query url.Values) Result[T] {
	return Send[T](ctx, c, op, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Send performs req and decodes the data field of the response envelope.
// A success:false envelope or a body that is not an envelope counts as a
// decode failure.
func Send[T any](ctx context.Context, c *Client, op string, req Request) Result[T] {
	reply, err := c.call(ctx, op, req)
	if err != nil {
		return failed[T](ctx, c, op, err)
	}

	var env envelope
	if err := json.Unmarshal(reply.body, &env); err != nil {
		return failed[T](ctx, c, op, &Error{Op: op, Reason: ReasonDecode, Err: err})
	}
	if !env.Success {
		return failed[T](ctx, c, op, &Error{Op: op, Reason: ReasonDecode, Err: fmt.Errorf("envelope reported failure: %q", env.Message)})
	}

	var value T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &value); err != nil {
			return failed[T](ctx, c, op, &Error{Op: op, Reason: ReasonDecode, Err: err})
		}
	}
	return Result[T]{Value: value, ctx: ctx, client: c, op: op}
}

// FetchBinary performs a GET whose response body is the payload itself.
func FetchBinary(ctx context.Context, c *Client, op, path string, query url.Values) Result[Binary] {
	reply, err := c.call(ctx, op, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return failed[Binary](ctx, c, op, err)
	}
	return Result[Binary]{
		Value: Binary{
			Data:        reply.body,
			ContentType: reply.header.Get("Content-Type"),
			Filename:    filenameFrom(reply.header.Get("Content-Disposition")),
		},
		ctx:    ctx,
		client: c,
		op:     op,
	}
}

// Binary is a downloaded file.
type Binary struct {
	Data        []byte
	ContentType string
	Filename    string
}

func filenameFrom(disposition string) string {
	_, rest, ok := strings.Cut(disposition, "filename=")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, ";")
	return strings.Trim(strings.TrimSpace(rest), `"`)
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token so upstream calls made with
// ctx are sent on the caller's behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
