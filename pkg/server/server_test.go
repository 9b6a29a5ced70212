package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/httputil"
	"github.com/matzehuels/infinicanvas/pkg/observability"
	"github.com/matzehuels/infinicanvas/pkg/pipeline"
	"github.com/matzehuels/infinicanvas/pkg/session"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	srv := New(mgr, runner, Options{Width: 160, Height: 120}, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeSession(t *testing.T, resp *http.Response, wantStatus int) SessionResponse {
	t.Helper()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, wantStatus, body)
	}
	var s SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return s
}

func create(t *testing.T, ts *httptest.Server) SessionResponse {
	t.Helper()
	return decodeSession(t, do(t, http.MethodPost, ts.URL+"/sessions", nil), http.StatusCreated)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/sessions", nil)
	created := decodeSession(t, resp, http.StatusCreated)
	if created.ID == "" {
		t.Fatal("no session id")
	}
	if loc := resp.Header.Get("Location"); loc != "/sessions/"+created.ID {
		t.Errorf("Location = %q", loc)
	}
	if created.Zoom != "100%" || created.View.Anchor != geom.AnchorCC || created.View.Ratio != 1 {
		t.Errorf("created = %+v", created)
	}

	base := ts.URL + "/sessions/" + created.ID
	got := decodeSession(t, do(t, http.MethodGet, base, nil), http.StatusOK)
	if got.ID != created.ID {
		t.Errorf("GET id = %q", got.ID)
	}

	resp = do(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d", resp.StatusCode)
	}
	if err := httputil.ReadError(resp); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestCreateWithSnapshot(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"state":  map[string]float64{"scale": 2, "offset_x": 10, "offset_y": -5},
		"ratio":  1.5,
		"anchor": "top-left",
	}
	s := decodeSession(t, do(t, http.MethodPost, ts.URL+"/sessions", body), http.StatusCreated)
	if s.View.State != (view.State{Scale: 2, OffsetX: 10, OffsetY: -5}) {
		t.Errorf("state = %+v", s.View.State)
	}
	if s.View.Anchor != geom.AnchorLT || s.Zoom != "200%" {
		t.Errorf("session = %+v", s)
	}

	resp := do(t, http.MethodPost, ts.URL+"/sessions", map[string]any{"anchor": "middle"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad anchor status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, ts.URL+"/sessions", map[string]any{"zoom": 3})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d", resp.StatusCode)
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	s = decodeSession(t, do(t, http.MethodPost, base+"/wheel", view.WheelEvent{X: 100, Y: 50, DeltaY: -1}), http.StatusOK)
	st := s.View.State
	if math.Abs(st.Scale-1.01) > 1e-9 {
		t.Errorf("scale = %v, want 1.01", st.Scale)
	}
	// World point (100, 50) stays under the cursor.
	if x, y := st.WorldToScreen(100, 50); math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("cursor point moved to (%v, %v)", x, y)
	}

	s = decodeSession(t, do(t, http.MethodPost, base+"/wheel", view.WheelEvent{DeltaY: 0}), http.StatusOK)
	if s.View.State != st {
		t.Errorf("deltaY 0 changed state: %+v", s.View.State)
	}
}

func TestPointerPan(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	// Move without a drag does nothing.
	s = decodeSession(t, do(t, http.MethodPost, base+"/pointer/move", view.PointerEvent{X: 50, Y: 50}), http.StatusOK)
	if s.View.State.OffsetX != 0 || s.Dragging {
		t.Fatalf("move without drag: %+v", s)
	}

	s = decodeSession(t, do(t, http.MethodPost, base+"/pointer/down", view.PointerEvent{X: 10, Y: 10}), http.StatusOK)
	if !s.Dragging {
		t.Fatal("not dragging after down")
	}
	decodeSession(t, do(t, http.MethodPost, base+"/pointer/move", view.PointerEvent{X: 15, Y: 30}), http.StatusOK)
	s = decodeSession(t, do(t, http.MethodPost, base+"/pointer/move", view.PointerEvent{X: 25, Y: 20}), http.StatusOK)
	if s.View.State.OffsetX != 15 || s.View.State.OffsetY != 10 {
		t.Errorf("offset = (%v, %v), want (15, 10)", s.View.State.OffsetX, s.View.State.OffsetY)
	}

	s = decodeSession(t, do(t, http.MethodPost, base+"/pointer/up", nil), http.StatusOK)
	if s.Dragging {
		t.Error("still dragging after up")
	}

	s = decodeSession(t, do(t, http.MethodPost, base+"/reset", nil), http.StatusOK)
	if s.View.State != view.NewState(0, 0) {
		t.Errorf("after reset state = %+v", s.View.State)
	}
}

func TestRatioAndAnchor(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	s = decodeSession(t, do(t, http.MethodPut, base+"/ratio", RatioRequest{Ratio: 9}), http.StatusOK)
	if s.View.Ratio != view.MaxRatio {
		t.Errorf("ratio = %v, want clamped %v", s.View.Ratio, view.MaxRatio)
	}

	s = decodeSession(t, do(t, http.MethodPut, base+"/anchor", AnchorRequest{Anchor: "rb"}), http.StatusOK)
	if s.View.Anchor != geom.AnchorRB {
		t.Errorf("anchor = %v", s.View.Anchor)
	}

	resp := do(t, http.MethodPut, base+"/anchor", AnchorRequest{Anchor: "XX"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad anchor status = %d", resp.StatusCode)
	}
	if err := httputil.ReadError(resp); !errors.Is(err, errors.ErrCodeInvalidAnchor) {
		t.Errorf("error = %v, want INVALID_ANCHOR", err)
	}

	// A rejected event leaves the session untouched.
	got := decodeSession(t, do(t, http.MethodGet, base, nil), http.StatusOK)
	if got.View.Anchor != geom.AnchorRB {
		t.Errorf("anchor after rejected event = %v", got.View.Anchor)
	}
}

func TestFrame(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"png", "image/png", "\x89PNG"},
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := do(t, http.MethodGet, base+"/frame."+tt.format+"?width=64&height=48&overlay=true", nil)
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q", ct)
			}
			if z := resp.Header.Get("X-Zoom"); z != "100%" {
				t.Errorf("X-Zoom = %q", z)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.HasPrefix(strings.TrimSpace(string(body)), tt.prefix) {
				t.Errorf("body starts with %q", body[:min(len(body), 16)])
			}
		})
	}

	t.Run("json reports size and view", func(t *testing.T) {
		resp := do(t, http.MethodGet, base+"/frame.json", nil)
		var fj pipeline.FrameJSON
		if err := json.NewDecoder(resp.Body).Decode(&fj); err != nil {
			t.Fatal(err)
		}
		if fj.Display.Width != 160 || fj.Display.Height != 120 {
			t.Errorf("display = %dx%d, want default 160x120", fj.Display.Width, fj.Display.Height)
		}
		if fj.Zoom != "100%" {
			t.Errorf("zoom = %q", fj.Zoom)
		}
	})
}

func TestFrameErrors(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	tests := []struct {
		name   string
		url    string
		status int
		code   errors.Code
	}{
		{"bad format", base + "/frame.gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad width", base + "/frame.png?width=abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"zero height", base + "/frame.png?height=0", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad overlay", base + "/frame.png?overlay=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"huge", base + "/frame.png?width=100000", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown session", ts.URL + "/sessions/nope/frame.png", http.StatusNotFound, errors.ErrCodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, tt.url, nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if err := httputil.ReadError(resp); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUnknownSessionEvents(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/wheel", "/pointer/down", "/pointer/up", "/reset"} {
		resp := do(t, http.MethodPost, ts.URL+"/sessions/nope"+path, map[string]float64{"x": 1, "y": 1})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
	events []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func (h *recordingHooks) OnSessionEvent(_ context.Context, event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	s := create(t, ts)
	do(t, http.MethodPost, ts.URL+"/sessions/"+s.ID+"/wheel", view.WheelEvent{DeltaY: 1})

	// OnResponse can run after the client already has the body.
	want := "POST /sessions/{id}/wheel"
	deadline := time.Now().Add(time.Second)
	for {
		hooks.mu.Lock()
		found := false
		for _, r := range hooks.routes {
			if r == want {
				found = true
			}
		}
		events := append([]string(nil), hooks.events...)
		routes := append([]string(nil), hooks.routes...)
		hooks.mu.Unlock()

		if found {
			if len(events) != 2 || events[0] != "create" || events[1] != "wheel" {
				t.Errorf("events = %v", events)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("routes = %v, want %q", routes, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour)
	srv := New(mgr, pipeline.NewRunner(nil, nil, nil), Options{ShutdownTimeout: time.Second}, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
