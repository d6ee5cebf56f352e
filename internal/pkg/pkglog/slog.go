package pkglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Service is attached to every record as the "service" attribute.
const Service = "datasweeper"

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// InitLogging installs a JSON logger writing to w as the slog default.
func InitLogging(w io.Writer, level slog.Level) {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})
	slog.SetDefault(slog.New(&contextHandler{Handler: jsonHandler}))
}

// InitCLILogging installs a text logger for terminal use. Records below
// level are dropped.
func InitCLILogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		for _, root := range []string{"/internal/", "/pkg/"} {
			if _, rest, found := strings.Cut(src.File, root); found {
				rel := filepath.Join(strings.Trim(root, "/"), rest)
				return slog.String("file", fmt.Sprintf("%s:%d", rel, src.Line))
			}
		}
		return slog.Attr{}
	}
	return a
}

type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cid := GetCorrelationID(ctx); cid != "" && cid != noCorrelationID {
		r.AddAttrs(slog.String("_cID", cid))
	}
	r.AddAttrs(slog.String("service", Service))
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
