// Package zapxml provides a zapcore.Encoder that writes log4j:event XML
// fragments, so a zap logger can feed Chainsaw-style viewers directly.
//
//	core := zapxml.NewCore(zapcore.Lock(os.Stdout), zapcore.InfoLevel, zapxml.WithLocationInfo())
//	logger := zap.New(core, zap.AddCaller()).Named("com.acme.api")
//
// Logger names become the logger attribute, structured fields become
// log4j:properties entries, and entry stack traces become log4j:throwable.
package zapxml

import (
	"time"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// EncodingName is the name under which Register installs the encoder.
const EncodingName = "log4jxml"

var pool = buffer.NewPool()

type config struct {
	rootLogger   string
	threadName   string
	ndcKey       string
	locationInfo bool
}

// Option configures an Encoder.
type Option func(*config)

// WithLocationInfo emits log4j:locationInfo from the entry caller.
func WithLocationInfo() Option {
	return func(c *config) { c.locationInfo = true }
}

// WithRootLogger sets the logger name used for unnamed loggers.
func WithRootLogger(name string) Option {
	return func(c *config) { c.rootLogger = name }
}

// WithThreadName sets the thread attribute written on every event.
func WithThreadName(name string) Option {
	return func(c *config) { c.threadName = name }
}

// WithNDCKey lifts the string field with the given key into log4j:NDC.
func WithNDCKey(key string) Option {
	return func(c *config) { c.ndcKey = key }
}

// Encoder implements zapcore.Encoder. Context fields added through With are
// kept in the embedded map encoder and copied on Clone.
type Encoder struct {
	*zapcore.MapObjectEncoder
	cfg    *config
	layout *xmllayout.Layout
}

var _ zapcore.Encoder = (*Encoder)(nil)

// NewEncoder creates an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	cfg := &config{
		rootLogger: "root",
		threadName: "main",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Encoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		cfg:              cfg,
		layout:           xmllayout.New(xmllayout.Options{LocationInfo: cfg.locationInfo}),
	}
}

// NewCore creates a zapcore.Core writing events to ws. Wrap ws with
// zapcore.Lock when it is shared.
func NewCore(ws zapcore.WriteSyncer, enab zapcore.LevelEnabler, opts ...Option) zapcore.Core {
	return zapcore.NewCore(NewEncoder(opts...), ws, enab)
}

// Register makes the encoder available to zap.Config as EncodingName.
func Register(opts ...Option) error {
	return zap.RegisterEncoder(EncodingName, func(zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return NewEncoder(opts...), nil
	})
}

// Clone implements zapcore.Encoder.
func (e *Encoder) Clone() zapcore.Encoder {
	return e.clone()
}

func (e *Encoder) clone() *Encoder {
	m := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		m.Fields[k] = v
	}
	return &Encoder{MapObjectEncoder: m, cfg: e.cfg, layout: e.layout}
}

// EncodeEntry implements zapcore.Encoder.
func (e *Encoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := e.clone()
	for _, f := range fields {
		f.AddTo(final)
	}

	ev := e.toEvent(ent, final.Fields)

	buf := pool.Get()
	if err := e.layout.Format(buf, ev); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}

func (e *Encoder) toEvent(ent zapcore.Entry, fields map[string]interface{}) *xmllayout.Event {
	name := ent.LoggerName
	if name == "" {
		name = e.cfg.rootLogger
	}
	t := ent.Time
	if t.IsZero() {
		t = time.Now()
	}

	ev := xmllayout.NewEvent(name, levelName(ent.Level), e.cfg.threadName, ent.Message, t)
	ev.Throwable = xmllayout.ThrowableLines(ent.Stack)

	if e.cfg.locationInfo {
		if ent.Caller.Defined {
			ev.Location = xmllayout.LocationFromFrame(ent.Caller.Function, ent.Caller.File, ent.Caller.Line)
		} else {
			ev.Location = xmllayout.UnknownLocation()
		}
	}

	for k, v := range fields {
		if e.cfg.ndcKey != "" && k == e.cfg.ndcKey {
			if s, ok := v.(string); ok {
				ev.SetNDC(s)
				continue
			}
		}
		ev.SetProperty(k, v)
	}
	return ev
}

func levelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARN"
	case zapcore.ErrorLevel:
		return "ERROR"
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return "FATAL"
	default:
		return l.CapitalString()
	}
}
