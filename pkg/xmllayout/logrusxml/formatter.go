// Package logrusxml provides a logrus.Formatter that writes log4j:event XML
// fragments.
//
//	log := logrus.New()
//	log.SetReportCaller(true)
//	log.SetFormatter(&logrusxml.Formatter{LocationInfo: true})
//	log.WithField("logger", "com.acme.worker").Info("started")
package logrusxml

import (
	"bytes"
	"fmt"
	"time"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultLoggerKey is the field consulted for the logger name.
	DefaultLoggerKey = "logger"
	// DefaultLoggerName is used when the entry carries no logger field.
	DefaultLoggerName = "root"
)

// Formatter implements logrus.Formatter. The zero value is usable.
type Formatter struct {
	// LoggerKey names the field holding the logger name. Defaults to
	// DefaultLoggerKey.
	LoggerKey string
	// LoggerName is the fallback logger name. Defaults to DefaultLoggerName.
	LoggerName string
	// ThreadName is written as the thread attribute. Defaults to "main".
	ThreadName string
	// NDCKey, when set, lifts the string field with that key into log4j:NDC.
	NDCKey string
	// LocationInfo emits log4j:locationInfo. Pair it with
	// Logger.SetReportCaller(true).
	LocationInfo bool
}

var _ logrus.Formatter = (*Formatter)(nil)

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	ev := f.toEvent(entry)

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	layout := xmllayout.New(xmllayout.Options{LocationInfo: f.LocationInfo})
	if err := layout.Format(b, ev); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (f *Formatter) toEvent(entry *logrus.Entry) *xmllayout.Event {
	loggerKey := f.LoggerKey
	if loggerKey == "" {
		loggerKey = DefaultLoggerKey
	}
	name := f.LoggerName
	if name == "" {
		name = DefaultLoggerName
	}
	if v, ok := entry.Data[loggerKey].(string); ok && v != "" {
		name = v
	}
	thread := f.ThreadName
	if thread == "" {
		thread = "main"
	}
	t := entry.Time
	if t.IsZero() {
		t = time.Now()
	}

	ev := xmllayout.NewEvent(name, levelName(entry.Level), thread, entry.Message, t)

	if f.LocationInfo {
		if entry.HasCaller() {
			ev.Location = xmllayout.LocationFromFrame(entry.Caller.Function, entry.Caller.File, entry.Caller.Line)
		} else {
			ev.Location = xmllayout.UnknownLocation()
		}
	}

	for k, v := range entry.Data {
		switch {
		case k == loggerKey:
			continue
		case k == logrus.ErrorKey:
			if err, ok := v.(error); ok {
				ev.Throwable = xmllayout.ThrowableLines(fmt.Sprintf("%+v", err))
				continue
			}
		case f.NDCKey != "" && k == f.NDCKey:
			if s, ok := v.(string); ok {
				ev.SetNDC(s)
				continue
			}
		}
		ev.SetProperty(k, v)
	}
	return ev
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.TraceLevel:
		return "TRACE"
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel:
		return "ERROR"
	default:
		return "FATAL"
	}
}
