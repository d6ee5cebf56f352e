package pkgrouter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
}

func maskHeaders(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if _, found := sensitiveHeaders[strings.ToLower(key)]; found {
			result.Set(key, "***")
		}
	}
	return result
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

// Bodies are not logged: uploads and downloads are whole files.
func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeOrPath(r)
		start := time.Now()

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"content_length", r.ContentLength,
			"headers", maskHeaders(r.Header),
		)

		rec := recorderFor(w)
		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "response sent",
			"method", r.Method,
			"route", route,
			"status", rec.code(),
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
