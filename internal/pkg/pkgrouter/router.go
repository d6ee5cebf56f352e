package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgerror"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
)

// Handler returns a payload to encode, or an error to map to a status.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Raw is a payload written as-is instead of the JSON envelope.
type Raw struct {
	ContentType string
	// Filename, when set, makes the response an attachment.
	Filename string
	Body     []byte
}

// Router is an http.Handler over httprouter plus a middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds a router with recovery, correlation ID and logging
// middleware installed.
func NewRouter(uid pkguid.StringID) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}
	return &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(uid),
			middlewareLogging,
		},
	}
}

// Use appends middleware for routes registered afterwards.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

// Handle registers a plain http.Handler behind the middleware chain.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	chain := make([]Middleware, 0, len(r.mws)+len(mws)+1)
	chain = append(chain, withRoute(path))
	chain = append(chain, r.mws...)
	chain = append(chain, mws...)
	r.hr.Handler(method, path, Chain(h, chain...))
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.Handle(method, path, http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(re.Context(), re)
		if err != nil {
			writeError(re.Context(), w, err)
			return
		}
		writeSuccess(w, resp)
	}), mws...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type errorResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unmapped handler error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}
	if gerr.StatusCode() >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "handler failed", "error", gerr.String())
	}
	writeJSON(w, errorResponse{Message: gerr.Msg()}, gerr.StatusCode())
}

func writeSuccess(w http.ResponseWriter, resp any) {
	if raw, ok := resp.(*Raw); ok {
		writeRaw(w, raw)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}
	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface{ Message() string }); ok {
		msg = m.Message()
	}
	var meta map[string]any
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		meta = m.Meta()
	}
	writeJSON(w, successResponse{Message: msg, Data: resp, Meta: meta}, code)
}

func writeRaw(w http.ResponseWriter, raw *Raw) {
	ct := raw.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw.Body)))
	if raw.Filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": raw.Filename}))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw.Body); err != nil {
		slog.Error("server: failed to write raw body", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
