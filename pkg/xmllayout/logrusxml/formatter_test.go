package logrusxml

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(f *Formatter) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.TraceLevel)
	log.SetFormatter(f)
	return log, buf
}

func TestFormatter_BasicEvent(t *testing.T) {
	log, buf := newLogger(&Formatter{})

	log.WithFields(logrus.Fields{"logger": "com.acme.worker", "job": "sync"}).Info("started")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<log4j:event logger="com.acme.worker" timestamp="`), out)
	assert.Contains(t, out, `level="INFO" thread="main">`)
	assert.Contains(t, out, "<log4j:message><![CDATA[started]]></log4j:message>")
	assert.Contains(t, out, `<log4j:data name="job" value="sync"/>`)
	assert.NotContains(t, out, `name="logger"`)
	assert.True(t, strings.HasSuffix(out, "</log4j:event>\r\n\r\n"))
}

func TestFormatter_Defaults(t *testing.T) {
	log, buf := newLogger(&Formatter{LoggerName: "app", ThreadName: "t-1"})

	log.Warn("plain")

	out := buf.String()
	assert.Contains(t, out, `logger="app"`)
	assert.Contains(t, out, `level="WARN" thread="t-1"`)
	assert.NotContains(t, out, "<log4j:properties>")
	assert.NotContains(t, out, "<log4j:throwable>")
}

func TestFormatter_ErrorBecomesThrowable(t *testing.T) {
	log, buf := newLogger(&Formatter{})

	log.WithError(errors.New("connection reset")).Error("upload failed")

	out := buf.String()
	assert.Contains(t, out, `level="ERROR"`)
	assert.Contains(t, out, "<log4j:throwable><![CDATA[connection reset\r\n]]></log4j:throwable>")
	assert.NotContains(t, out, `name="error"`)
}

func TestFormatter_NDCAndLocation(t *testing.T) {
	log, buf := newLogger(&Formatter{NDCKey: "ndc", LocationInfo: true})
	log.SetReportCaller(true)

	log.WithField("ndc", "req-1").Debug("traced")

	out := buf.String()
	assert.Contains(t, out, "<log4j:NDC><![CDATA[req-1]]></log4j:NDC>")
	assert.Contains(t, out, `method="TestFormatter_NDCAndLocation"`)
	assert.Contains(t, out, `file="formatter_test.go"`)
}

func TestFormatter_LocationWithoutCaller(t *testing.T) {
	f := &Formatter{LocationInfo: true}
	out, err := f.Format(&logrus.Entry{Level: logrus.InfoLevel, Message: "m", Time: time.Unix(1, 0)})
	require.NoError(t, err)

	assert.Contains(t, string(out), `timestamp="1000"`)
	assert.Contains(t, string(out), `<log4j:locationInfo class="?" method="?" file="?" line="?"/>`)
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level logrus.Level
		want  string
	}{
		{logrus.TraceLevel, "TRACE"},
		{logrus.DebugLevel, "DEBUG"},
		{logrus.InfoLevel, "INFO"},
		{logrus.WarnLevel, "WARN"},
		{logrus.ErrorLevel, "ERROR"},
		{logrus.FatalLevel, "FATAL"},
		{logrus.PanicLevel, "FATAL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelName(tt.level), tt.level.String())
	}
}
