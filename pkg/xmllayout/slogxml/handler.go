// Package slogxml provides a log/slog Handler that writes log4j:event XML
// fragments.
package slogxml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Level is the minimum level handled. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// AddSource emits log4j:locationInfo from the record's program counter.
	AddSource bool
	// LoggerName is written as the logger attribute. Defaults to "root".
	LoggerName string
	// ThreadName is written as the thread attribute. Defaults to "main".
	ThreadName string
	// NDCKey, when set, lifts the string attribute with that key into
	// log4j:NDC.
	NDCKey string
	// ErrorKey names the attribute whose error value becomes
	// log4j:throwable. Defaults to "error".
	ErrorKey string
}

// Handler implements slog.Handler. Handlers derived through WithAttrs and
// WithGroup share the parent's writer lock.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   HandlerOptions
	layout *xmllayout.Layout
	attrs  []slog.Attr
	prefix string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts *HandlerOptions) *Handler {
	h := &Handler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.LoggerName == "" {
		h.opts.LoggerName = "root"
	}
	if h.opts.ThreadName == "" {
		h.opts.ThreadName = "main"
	}
	if h.opts.ErrorKey == "" {
		h.opts.ErrorKey = "error"
	}
	h.layout = xmllayout.New(xmllayout.Options{LocationInfo: h.opts.AddSource})
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	ev := xmllayout.NewEvent(h.opts.LoggerName, levelName(r.Level), h.opts.ThreadName, r.Message, t)

	if h.opts.AddSource {
		if r.PC != 0 {
			frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
			ev.Location = xmllayout.LocationFromFrame(frame.Function, frame.File, frame.Line)
		} else {
			ev.Location = xmllayout.UnknownLocation()
		}
	}

	for _, a := range h.attrs {
		h.addAttr(ev, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.addAttr(ev, h.prefix, a)
		return true
	})

	var buf bytes.Buffer
	if err := h.layout.Format(&buf, ev); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, qualify(h.prefix, a))
	}
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.attrs = append([]slog.Attr(nil), h.attrs...)
	return &h2
}

func qualify(prefix string, a slog.Attr) slog.Attr {
	a.Key = prefix + a.Key
	return a
}

// addAttr flattens groups into dotted property names.
func (h *Handler) addAttr(ev *xmllayout.Event, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindGroup:
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = key + "."
		}
		for _, ga := range a.Value.Group() {
			h.addAttr(ev, groupPrefix, ga)
		}
		return
	case slog.KindString:
		if h.opts.NDCKey != "" && key == h.opts.NDCKey {
			ev.SetNDC(a.Value.String())
			return
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && key == h.opts.ErrorKey {
			ev.Throwable = xmllayout.ThrowableLines(fmt.Sprintf("%+v", err))
			return
		}
	}
	ev.SetProperty(key, a.Value.String())
}

func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	case l < slog.LevelError+4:
		return "ERROR"
	default:
		return "FATAL"
	}
}
