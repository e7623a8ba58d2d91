package streaminghttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"

	"github.com/finvel/fingate/auth"
	"github.com/finvel/fingate/fixtures"
	"github.com/finvel/fingate/internal/logctx"
	"github.com/finvel/fingate/internal/metrics"
	"github.com/finvel/fingate/sessions"
)

var _ http.Handler = (*Handler)(nil)

// SessionCookieName is the cookie carrying the opaque session token on every
// protected request.
const SessionCookieName = "sessionid"

var (
	jsonMediaType         = contenttype.NewMediaType("application/json")
	eventStreamMediaType  = contenttype.NewMediaType("text/event-stream")
	eventStreamMediaTypes = []contenttype.MediaType{eventStreamMediaType}
)

// writeJSONError emits a short JSON body for HTTP-layer rejections.
// Shape: {"error":{"code":<httpStatus>,"message":"<reason>"}}
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if ct := w.Header().Get("Content-Type"); ct == "" || ct == jsonMediaType.String() {
		w.Header().Set("Content-Type", jsonMediaType.String())
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
}

// Option configures the Handler.
type Option func(*newConfig)

type newConfig struct {
	serverName string
	logger     *slog.Logger
	resources  []Resource
	metrics    *metrics.Metrics
}

// WithServerName sets a human-readable server name surfaced on /healthz.
func WithServerName(name string) Option {
	return func(c *newConfig) { c.serverName = name }
}

// WithLogger sets the slog logger used by the handler. Defaults to slog.Default().
func WithLogger(h *slog.Logger) Option {
	return func(c *newConfig) { c.logger = h }
}

// WithResources replaces the default resource table. Useful for tests that
// need millisecond stream intervals.
func WithResources(rs ...Resource) Option {
	return func(c *newConfig) { c.resources = rs }
}

// WithMetrics supplies a metrics bundle. A fresh one with its own registry is
// created if not provided.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *newConfig) { c.metrics = m }
}

// Handler is the gateway's HTTP surface: login, protected one-shot fixture
// routes, protected event-stream routes, health, and metrics.
type Handler struct {
	mux   *http.ServeMux
	log   *slog.Logger
	store sessions.Store
	authn auth.Authenticator
	data  fixtures.Provider
	met   *metrics.Metrics
	name  string
}

// New constructs a Handler serving the given resource table.
//
// Required:
//   - store: sessions.Store the login surface registers into and the gate
//     resolves against
//   - provider: fixtures.Provider addressing per-subject blobs
func New(store sessions.Store, provider fixtures.Provider, opts ...Option) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("sessions store is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("fixture provider is required")
	}

	cfg := &newConfig{logger: slog.Default(), serverName: "fingate", resources: DefaultResources()}
	for _, opt := range opts {
		opt(cfg)
	}

	seen := make(map[string]bool, len(cfg.resources))
	for _, res := range cfg.resources {
		if res.Name == "" || res.File == "" {
			return nil, fmt.Errorf("resource name and file are required")
		}
		if res.StreamInterval <= 0 {
			return nil, fmt.Errorf("resource %q: stream interval must be positive", res.Name)
		}
		if seen[res.Name] {
			return nil, fmt.Errorf("duplicate resource %q", res.Name)
		}
		seen[res.Name] = true
	}

	met := cfg.metrics
	if met == nil {
		met = metrics.New()
	}

	h := &Handler{
		log:   slog.New(logctx.Handler{Handler: cfg.logger.Handler()}),
		store: store,
		authn: auth.NewStoreAuthenticator(store),
		data:  provider,
		met:   met,
		name:  cfg.serverName,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mockWebPage", h.handleLoginPage)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", met.Handler())
	for _, res := range cfg.resources {
		mux.Handle("GET /api/"+res.Name, h.requireSubject(h.handleOneShot(res)))
		mux.Handle("GET /stream/"+res.Name, h.requireSubject(h.handleStream(res)))
	}
	h.mux = mux
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r.WithContext(logctx.WithRequestData(r.Context(), &logctx.RequestData{
		RequestID:  uuid.NewString(),
		Method:     r.Method,
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
		Path:       r.URL.Path,
	})))
}

// requireSubject wraps next with the authentication gate: the session cookie
// must resolve to a non-empty subject at request time. The check runs anew on
// every request; nothing is cached and nothing refreshes a session.
func (h *Handler) requireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		c, err := r.Cookie(SessionCookieName)
		if err != nil {
			h.met.AuthRejections.Inc()
			h.log.InfoContext(ctx, "auth.check.missing")
			writeJSONError(w, http.StatusUnauthorized, "login required")
			return
		}

		subject, err := h.authn.CheckAuthentication(ctx, c.Value)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				h.met.AuthRejections.Inc()
				h.log.InfoContext(ctx, "auth.check.fail")
				writeJSONError(w, http.StatusUnauthorized, "login required")
				return
			}
			h.log.ErrorContext(ctx, "auth.check.err", slog.String("err", err.Error()))
			writeJSONError(w, http.StatusInternalServerError, "authentication unavailable")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSubject(ctx, subject)))
	})
}

// handleOneShot serves a single fresh read of the resource as raw JSON bytes.
// The body is forwarded verbatim; it is never validated or reshaped.
func (h *Handler) handleOneShot(res Resource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		subject, ok := auth.SubjectFromContext(ctx)
		if !ok {
			h.log.ErrorContext(ctx, "subject.missing")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		data, err := h.data.Read(ctx, subject, res.File)
		if err != nil {
			h.met.FixtureReads.WithLabelValues(res.Name, "error").Inc()
			h.log.ErrorContext(ctx, "fixture.read.fail",
				slog.String("resource", res.Name), slog.String("err", err.Error()))
			writeJSONError(w, http.StatusInternalServerError, "data not found")
			return
		}
		h.met.FixtureReads.WithLabelValues(res.Name, "ok").Inc()

		w.Header().Set("Content-Type", jsonMediaType.String())
		if _, err := w.Write(data); err != nil {
			h.log.WarnContext(ctx, "fixture.write.fail",
				slog.String("resource", res.Name), slog.String("err", err.Error()))
			return
		}
		h.log.InfoContext(ctx, "fixture.read.ok",
			slog.String("resource", res.Name), slog.Duration("dur", time.Since(start)))
	})
}

// handleStream holds the connection open and pushes a fresh read of the
// resource every StreamInterval until the client disconnects.
func (h *Handler) handleStream(res Resource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logctx.WithStreamData(r.Context(), &logctx.StreamData{
			Resource: res.Name,
			Interval: res.StreamInterval,
		})
		subject, ok := auth.SubjectFromContext(ctx)
		if !ok {
			h.log.ErrorContext(ctx, "subject.missing")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if acc := r.Header.Get("Accept"); acc != "" {
			if _, _, err := contenttype.GetAcceptableMediaType(r, eventStreamMediaTypes); err != nil {
				h.log.WarnContext(ctx, "accept.unsupported", slog.String("accept", acc))
				w.WriteHeader(http.StatusUnsupportedMediaType)
				return
			}
		}

		f, ok := w.(http.Flusher)
		if !ok {
			h.log.ErrorContext(ctx, "sse.flusher.missing")
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		wf := &lockedWriteFlusher{Writer: w, Flusher: f, ctx: ctx}

		w.Header().Set("Content-Type", eventStreamMediaType.String())
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		wf.Flush()

		h.met.ActiveStreams.Inc()
		defer h.met.ActiveStreams.Dec()
		h.log.InfoContext(ctx, "sse.stream.start")

		ticker := time.NewTicker(res.StreamInterval)
		defer ticker.Stop()

		var seq uint64
		for {
			select {
			case <-ctx.Done():
				h.log.InfoContext(ctx, "sse.stream.end", slog.Duration("dur", time.Since(start)))
				return
			case <-ticker.C:
				// Disconnect wins over a simultaneous tick.
				if ctx.Err() != nil {
					h.log.InfoContext(ctx, "sse.stream.end", slog.Duration("dur", time.Since(start)))
					return
				}
				data, err := h.data.Read(ctx, subject, res.File)
				if err != nil {
					// A failed read skips this tick; the stream stays open so a
					// later tick recovers if the fixture reappears.
					h.met.StreamReadFailures.WithLabelValues(res.Name).Inc()
					h.log.WarnContext(ctx, "sse.tick.skip", slog.String("err", err.Error()))
					continue
				}
				seq++
				if err := writeSSEEvent(wf, strconv.FormatUint(seq, 10), data); err != nil {
					h.log.InfoContext(ctx, "sse.write.fail", slog.String("err", err.Error()))
					return
				}
				h.met.StreamEvents.WithLabelValues(res.Name).Inc()
			}
		}
	})
}

// handleHealth is deliberately outside the authentication gate so load
// balancers can probe without a session.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "server": h.name})
}
