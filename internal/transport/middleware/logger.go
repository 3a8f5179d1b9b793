package middleware

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/heartmarshall/slide-relay/pkg/ctxutil"
)

// Logger returns middleware that logs each HTTP request with method, path,
// status, size, duration and the caller identity (operator subject or
// edge origin) when known.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			caller := &callerInfo{}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))

			// Auth middleware runs inside this one, so the identity is read
			// from the holder it filled in.
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int64("bytes", sw.written),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if caller.subject != "" {
				attrs = append(attrs, slog.String("subject", caller.subject))
			}
			if caller.origin != "" {
				attrs = append(attrs, slog.String("origin_id", caller.origin))
			}
			if sw.hijacked {
				attrs = append(attrs, slog.Bool("hijacked", true))
			}

			level := slog.LevelInfo
			if sw.status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

type callerKey struct{}

// callerInfo is filled in by auth middleware for the request log line.
type callerInfo struct {
	subject string
	origin  string
}

func recordCaller(ctx context.Context, subject, origin string) {
	if c, ok := ctx.Value(callerKey{}).(*callerInfo); ok {
		if subject != "" {
			c.subject = subject
		}
		if origin != "" {
			c.origin = origin
		}
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status
// code and size. It passes through Flush and Hijack so streaming and
// WebSocket upgrades keep working.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
	hijacked    bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer %T does not support hijacking", w.ResponseWriter)
	}
	conn, rw, err := h.Hijack()
	if err == nil {
		w.hijacked = true
		w.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
