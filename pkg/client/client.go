// Package client talks to a canvas server (see pkg/server).
//
//	c := client.New("http://localhost:8080")
//	sess, _ := c.CreateSession(ctx, nil)
//	sess, _ = c.Wheel(ctx, sess.ID, view.WheelEvent{X: 400, Y: 300, DeltaY: -1})
//	png, _ := c.Frame(ctx, sess.ID, client.FrameRequest{Format: "png"})
//
// Server errors come back as coded errors from pkg/errors, so
// errors.Is(err, errors.ErrCodeSessionNotFound) works on the client side.
// Idempotent requests (GET, PUT, DELETE) are retried on network errors and
// 5xx responses; event POSTs are sent once, since replaying a wheel or move
// event would apply it twice.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/httputil"
	"github.com/matzehuels/infinicanvas/pkg/server"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

const httpTimeout = 30 * time.Second

// Client is a canvas server client. It is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FrameRequest selects a frame rendering. Zero sizes use the server's
// defaults.
type FrameRequest struct {
	Format  string
	Width   int
	Height  int
	Overlay bool
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/healthz", nil, nil)
}

// CreateSession starts a session. A nil snap uses the server's initial view.
func (c *Client) CreateSession(ctx context.Context, snap *view.Snapshot) (*server.SessionResponse, error) {
	var in any
	if snap != nil {
		in = snap
	}
	return c.session(ctx, http.MethodPost, "/sessions", in)
}

// Session fetches a session.
func (c *Client) Session(ctx context.Context, id string) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodGet, sessionPath(id, ""), nil)
}

// DeleteSession ends a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, sessionPath(id, ""), nil, nil)
}

// Wheel sends a wheel event.
func (c *Client) Wheel(ctx context.Context, id string, e view.WheelEvent) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/wheel"), e)
}

// PointerDown starts a drag at e.
func (c *Client) PointerDown(ctx context.Context, id string, e view.PointerEvent) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/pointer/down"), e)
}

// PointerMove moves the pointer; it pans only during a drag.
func (c *Client) PointerMove(ctx context.Context, id string, e view.PointerEvent) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/pointer/move"), e)
}

// PointerUp ends the drag.
func (c *Client) PointerUp(ctx context.Context, id string) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/pointer/up"), nil)
}

// SetRatio sets the display ratio.
func (c *Client) SetRatio(ctx context.Context, id string, ratio float64) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPut, sessionPath(id, "/ratio"), server.RatioRequest{Ratio: ratio})
}

// SetAnchor selects the anchor by key or label.
func (c *Client) SetAnchor(ctx context.Context, id, anchor string) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPut, sessionPath(id, "/anchor"), server.AnchorRequest{Anchor: anchor})
}

// Reset returns the view to the session's initial state.
func (c *Client) Reset(ctx context.Context, id string) (*server.SessionResponse, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/reset"), nil)
}

// Frame fetches a rendered frame.
func (c *Client) Frame(ctx context.Context, id string, req FrameRequest) ([]byte, error) {
	format := req.Format
	if format == "" {
		format = "png"
	}
	q := url.Values{}
	if req.Width > 0 {
		q.Set("width", strconv.Itoa(req.Width))
	}
	if req.Height > 0 {
		q.Set("height", strconv.Itoa(req.Height))
	}
	if req.Overlay {
		q.Set("overlay", "true")
	}
	path := sessionPath(id, "/frame."+url.PathEscape(format))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data []byte
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) session(ctx context.Context, method, path string, in any) (*server.SessionResponse, error) {
	var out server.SessionResponse
	if err := c.call(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func sessionPath(id, suffix string) string {
	return "/sessions/" + url.PathEscape(id) + suffix
}

// call performs one request, retrying idempotent methods. out may be nil,
// a *[]byte for the raw body, or a value to JSON-decode into.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	fn := func() error { return c.do(ctx, method, path, in, out) }
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return httputil.RetryWithBackoff(ctx, fn)
	default:
		return fn()
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &httputil.RetryableError{Err: httputil.ReadError(resp)}
	}
	if resp.StatusCode >= 300 {
		return httputil.ReadError(resp)
	}

	switch v := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *[]byte:
		*v, err = io.ReadAll(resp.Body)
		return err
	default:
		return json.NewDecoder(resp.Body).Decode(out)
	}
}
