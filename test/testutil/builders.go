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

package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// EventBuilder provides a fluent API for creating test log records
type EventBuilder struct {
	event xmllayout.Event
}

// NewEventBuilder creates a new event builder with defaults. The sequence
// number is seq and the timestamp is seq milliseconds after a fixed epoch.
func NewEventBuilder(seq int64) *EventBuilder {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &EventBuilder{
		event: xmllayout.Event{
			Logger:    "com.example.App",
			Timestamp: base.Add(time.Duration(seq) * time.Millisecond).UnixMilli(),
			Sequence:  seq,
			LevelName: "INFO",
			Thread:    "main",
			Message:   fmt.Sprintf("event %d", seq),
		},
	}
}

// WithLogger sets the logger name
func (b *EventBuilder) WithLogger(name string) *EventBuilder {
	b.event.Logger = name
	return b
}

// WithLevel sets the level name
func (b *EventBuilder) WithLevel(level string) *EventBuilder {
	b.event.LevelName = level
	return b
}

// WithThread sets the thread name
func (b *EventBuilder) WithThread(thread string) *EventBuilder {
	b.event.Thread = thread
	return b
}

// WithMessage sets the rendered message
func (b *EventBuilder) WithMessage(msg string) *EventBuilder {
	b.event.Message = msg
	return b
}

// WithNDC sets the nested diagnostic context
func (b *EventBuilder) WithNDC(ndc string) *EventBuilder {
	b.event.SetNDC(ndc)
	return b
}

// WithThrowable sets the throwable lines
func (b *EventBuilder) WithThrowable(lines ...string) *EventBuilder {
	b.event.Throwable = lines
	return b
}

// WithLocation sets the location information
func (b *EventBuilder) WithLocation(class, method, file, line string) *EventBuilder {
	b.event.Location = &xmllayout.LocationInfo{
		ClassName:  class,
		MethodName: method,
		FileName:   file,
		LineNumber: line,
	}
	return b
}

// WithProperty adds a property
func (b *EventBuilder) WithProperty(key string, value any) *EventBuilder {
	b.event.SetProperty(key, value)
	return b
}

// Build returns a copy of the built event
func (b *EventBuilder) Build() *xmllayout.Event {
	ev := b.event
	return &ev
}

// JSON returns the event as a single NDJSON line without the newline
func (b *EventBuilder) JSON() string {
	data, err := json.Marshal(b.event)
	if err != nil {
		panic(fmt.Sprintf("marshal test event: %v", err))
	}
	return string(data)
}

// NDJSON joins events into newline-delimited JSON
func NDJSON(builders ...*EventBuilder) string {
	var sb strings.Builder
	for _, b := range builders {
		sb.WriteString(b.JSON())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Events builds count default events with sequence numbers first..first+count-1
func Events(first int64, count int) []*EventBuilder {
	out := make([]*EventBuilder, count)
	for i := range out {
		out[i] = NewEventBuilder(first + int64(i))
	}
	return out
}

// WriteNDJSON writes the events to path, appending when the file exists
func WriteNDJSON(t *testing.T, path string, builders ...*EventBuilder) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("Failed to open NDJSON file: %v", err)
	}
	if _, err := f.WriteString(NDJSON(builders...)); err != nil {
		f.Close()
		t.Fatalf("Failed to write NDJSON file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close NDJSON file: %v", err)
	}
}
