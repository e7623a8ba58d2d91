package streaminghttp

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// handleLoginPage renders the demo login page for a pending session ID,
// listing the subjects that have fixture data.
func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid := r.URL.Query().Get("sessionId")
	if sid == "" {
		writeJSONError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	subjects, err := h.data.Subjects(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "login.subjects.fail", slog.String("err", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "fixture data unavailable")
		return
	}

	data := struct {
		SessionID string
		Allowed   []string
	}{sid, subjects}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.log.ErrorContext(ctx, "login.page.render.fail", slog.String("err", err.Error()))
	}
}

// handleLogin registers the (sessionId, phoneNumber) pair and sets the session
// cookie. The token is caller-supplied and opaque; the binding never expires.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid := r.FormValue("sessionId")
	phone := r.FormValue("phoneNumber")
	if sid == "" || phone == "" {
		writeJSONError(w, http.StatusBadRequest, "sessionId and phoneNumber are required")
		return
	}

	if err := h.store.Register(ctx, sid, phone); err != nil {
		h.log.ErrorContext(ctx, "login.register.fail", slog.String("err", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "session registration failed")
		return
	}
	h.log.InfoContext(ctx, "login.ok")

	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: sid, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "login_successful.html", nil); err != nil {
		h.log.ErrorContext(ctx, "login.page.render.fail", slog.String("err", err.Error()))
	}
}
