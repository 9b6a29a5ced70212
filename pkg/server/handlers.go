package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/httputil"
	"github.com/matzehuels/infinicanvas/pkg/observability"
	"github.com/matzehuels/infinicanvas/pkg/pipeline"
	"github.com/matzehuels/infinicanvas/pkg/session"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// SessionResponse is the JSON form of a session.
type SessionResponse struct {
	ID        string        `json:"id"`
	View      view.Snapshot `json:"view"`
	Zoom      string        `json:"zoom"`
	Dragging  bool          `json:"dragging"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// RatioRequest is the body of PUT /sessions/{id}/ratio.
type RatioRequest struct {
	Ratio float64 `json:"ratio"`
}

// AnchorRequest is the body of PUT /sessions/{id}/anchor. Keys ("RB") and
// labels ("bottom-right") are both accepted.
type AnchorRequest struct {
	Anchor string `json:"anchor"`
}

func newSessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		ID:        sess.ID,
		View:      sess.View,
		Zoom:      sess.View.State.ZoomIndicator(),
		Dragging:  sess.View.Drag != nil,
		ExpiresAt: sess.ExpiresAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	snap := s.opts.Initial
	snap.Anchor = ""
	if err := httputil.DecodeJSON(r.Body, &snap); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := errors.ValidateFinite("view", snap.State.Scale, snap.State.OffsetX, snap.State.OffsetY, snap.Ratio); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if snap.Anchor == "" {
		snap.Anchor = s.opts.Initial.Anchor
	}
	a, err := geom.ParseAnchor(string(snap.Anchor))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	snap.Anchor = a
	snap.Drag = nil

	sess, err := s.sessions.Create(r.Context(), snap)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	observability.Server().OnSessionEvent(r.Context(), "create")
	s.logger.Debug("session created", "id", sess.ID)

	w.Header().Set("Location", "/sessions/"+sess.ID)
	httputil.WriteJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	observability.Server().OnSessionEvent(r.Context(), "delete")
	s.logger.Debug("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// update decodes the body into req (when non-nil), applies fn to the
// session's holder and writes the updated session.
func (s *Server) update(w http.ResponseWriter, r *http.Request, event string, req any, fn func(h *view.Holder) error) {
	if req != nil {
		if err := httputil.DecodeJSON(r.Body, req); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), fn)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	observability.Server().OnSessionEvent(r.Context(), event)
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	var e view.WheelEvent
	s.update(w, r, "wheel", &e, func(h *view.Holder) error {
		if err := errors.ValidateFinite("wheel event", e.X, e.Y, e.DeltaY); err != nil {
			return err
		}
		h.Zoom(e)
		return nil
	})
}

func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	var e view.PointerEvent
	s.update(w, r, "pointer_down", &e, func(h *view.Holder) error {
		if err := errors.ValidateFinite("pointer event", e.X, e.Y); err != nil {
			return err
		}
		h.PanStart(e)
		return nil
	})
}

func (s *Server) handlePointerMove(w http.ResponseWriter, r *http.Request) {
	var e view.PointerEvent
	s.update(w, r, "pointer_move", &e, func(h *view.Holder) error {
		if err := errors.ValidateFinite("pointer event", e.X, e.Y); err != nil {
			return err
		}
		h.PanMove(e)
		return nil
	})
}

func (s *Server) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, "pointer_up", nil, func(h *view.Holder) error {
		h.PanEnd()
		return nil
	})
}

func (s *Server) handleRatio(w http.ResponseWriter, r *http.Request) {
	var req RatioRequest
	s.update(w, r, "ratio", &req, func(h *view.Holder) error {
		if err := errors.ValidateFinite("ratio", req.Ratio); err != nil {
			return err
		}
		h.SetRatio(req.Ratio)
		return nil
	})
}

func (s *Server) handleAnchor(w http.ResponseWriter, r *http.Request) {
	var req AnchorRequest
	s.update(w, r, "anchor", &req, func(h *view.Holder) error {
		a, err := geom.ParseAnchor(req.Anchor)
		if err != nil {
			return err
		}
		h.SetAnchor(a)
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, "reset", nil, func(h *view.Holder) error {
		h.Reset()
		return nil
	})
}

var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	width, err := intParam(q.Get("width"), s.opts.Width)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	height, err := intParam(q.Get("height"), s.opts.Height)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	overlay := false
	if v := q.Get("overlay"); v != "" {
		if overlay, err = strconv.ParseBool(v); err != nil {
			httputil.WriteError(w, errors.New(errors.ErrCodeInvalidInput, "overlay must be a boolean, got %q", v))
			return
		}
	}

	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Width:   width,
		Height:  height,
		View:    sess.View,
		Formats: []string{format},
		Overlay: overlay,
		Avatar:  s.opts.Avatar,
		Frame:   s.opts.Frame,
		Logger:  s.logger,
	})
	if err != nil {
		s.logger.Error("render failed", "session", sess.ID, "err", err)
		httputil.WriteError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Zoom", sess.View.State.ZoomIndicator())
	_, _ = w.Write(result.Artifacts[format])
}

// intParam parses a positive query integer, returning def when s is empty.
func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "frame size must be a positive integer, got %q", s)
	}
	return n, nil
}
