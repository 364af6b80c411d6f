// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmllayout

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Options configures a Layout. Options are fixed once formatting starts.
type Options struct {
	// LocationInfo enables the log4j:locationInfo element. Records formatted
	// with this option set must carry location information.
	LocationInfo bool `yaml:"location_info"`
}

// Layout formats Records as log4j:event fragments.
type Layout struct {
	locationInfo bool
}

// New creates a Layout with the given options.
func New(opts Options) *Layout {
	return &Layout{locationInfo: opts.LocationInfo}
}

// SetLocationInfo sets the LocationInfo option. Call it before the layout is
// shared.
func (l *Layout) SetLocationInfo(flag bool) {
	l.locationInfo = flag
}

// LocationInfo returns the current value of the LocationInfo option.
func (l *Layout) LocationInfo() bool {
	return l.locationInfo
}

// ActivateOptions is a no-op; the layout has nothing to prepare.
func (l *Layout) ActivateOptions() {}

// IgnoresThrowable reports false: throwable information is always written
// when the record carries it.
func (l *Layout) IgnoresThrowable() bool {
	return false
}

// Format writes one log4j:event fragment for rec to w.
//
// Logger, level, thread, class and file names and property names and values
// are written verbatim. The message is CDATA-escaped, the method name is
// tag-escaped, and the NDC and throwable lines are wrapped in CDATA without
// escaping. The first error returned by w is returned unchanged and nothing
// further is written.
func (l *Layout) Format(w io.Writer, rec Record) error {
	fw := &fragmentWriter{w: w}

	fw.write(`<log4j:event logger="`)
	fw.write(rec.LoggerName())
	fw.write(`" timestamp="`)
	fw.write(strconv.FormatInt(rec.TimeStamp(), 10))
	fw.write(`" sequenceNumber="`)
	fw.write(strconv.FormatInt(rec.SequenceNumber(), 10))
	fw.write(`" level="`)
	fw.write(rec.Level())
	fw.write(`" thread="`)
	fw.write(rec.ThreadName())
	fw.write("\">\r\n")

	fw.write("<log4j:message>" + CDATAStart)
	fw.writeEscapingCDATA(rec.RenderedMessage())
	fw.write(CDATAEnd + "</log4j:message>\r\n")

	if ndc, ok := rec.NDC(); ok {
		fw.write("<log4j:NDC>" + CDATAStart)
		fw.write(ndc)
		fw.write(CDATAEnd + "</log4j:NDC>\r\n")
	}

	// An empty, non-nil slice writes no section, unlike log4j which
	// writes an empty one.
	if lines := rec.ThrowableStrRep(); len(lines) > 0 {
		fw.write("<log4j:throwable>" + CDATAStart)
		for _, line := range lines {
			fw.write(line)
			fw.write("\r\n")
		}
		fw.write(CDATAEnd + "</log4j:throwable>\r\n")
	}

	if l.locationInfo {
		loc := rec.LocationInformation()
		fw.write(`<log4j:locationInfo class="`)
		fw.write(loc.ClassName)
		fw.write(`" method="`)
		fw.write(EscapeTags(loc.MethodName))
		fw.write(`" file="`)
		fw.write(loc.FileName)
		fw.write(`" line="`)
		fw.write(loc.LineNumber)
		fw.write("\"/>\r\n")
	}

	if keys := rec.PropertyKeys(); len(keys) > 0 {
		fw.write("<log4j:properties>\r\n")
		for _, key := range keys {
			fw.write(`    <log4j:data name="` + key)
			fw.write(`" value="` + fmt.Sprint(rec.Property(key)))
			fw.write("\"/>\r\n")
		}
		fw.write("</log4j:properties>\r\n")
	}

	fw.write("</log4j:event>\r\n\r\n")
	return fw.err
}

// FormatString returns the fragment for rec as a string.
func (l *Layout) FormatString(rec Record) string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = l.Format(&sb, rec)
	return sb.String()
}

// fragmentWriter stops writing after the first error and remembers it.
type fragmentWriter struct {
	w   io.Writer
	err error
}

func (fw *fragmentWriter) write(s string) {
	if fw.err != nil {
		return
	}
	_, fw.err = io.WriteString(fw.w, s)
}

func (fw *fragmentWriter) writeEscapingCDATA(s string) {
	if fw.err != nil {
		return
	}
	fw.err = AppendEscapingCDATA(fw.w, s)
}
