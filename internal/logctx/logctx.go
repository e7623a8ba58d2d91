// Package logctx enriches slog records with request-scoped data carried in
// the context, so handlers log once and the handler chain's identity and
// stream details come along for free.
package logctx

import (
	"context"
	"log/slog"
	"time"

	"github.com/finvel/fingate/auth"
)

// Handler wraps another slog.Handler and lifts request, subject, and stream
// data out of the record's context into grouped attributes.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		r.AddAttrs(slog.Group("req",
			slog.String("id", rd.RequestID),
			slog.String("method", rd.Method),
			slog.String("user_agent", rd.UserAgent),
			slog.String("remote_addr", rd.RemoteAddr),
			slog.String("path", rd.Path),
		))
	}

	if subject, ok := auth.SubjectFromContext(ctx); ok {
		r.AddAttrs(slog.String("subject", subject))
	}

	if sd, ok := ctx.Value(streamDataKey{}).(*StreamData); ok {
		r.AddAttrs(slog.Group("stream",
			slog.String("resource", sd.Resource),
			slog.Duration("interval", sd.Interval),
		))
	}

	return h.Handler.Handle(ctx, r)
}

type requestDataKey struct{}

type RequestData struct {
	RequestID  string
	Method     string
	UserAgent  string
	RemoteAddr string
	Path       string
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

type streamDataKey struct{}

type StreamData struct {
	Resource string
	Interval time.Duration
}

func WithStreamData(ctx context.Context, data *StreamData) context.Context {
	return context.WithValue(ctx, streamDataKey{}, data)
}
