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
	"sort"
	"time"
)

// Event is a concrete Record. Its JSON form is the NDJSON record format
// accepted by the eventxml CLI.
type Event struct {
	Logger     string         `json:"logger"`
	Timestamp  int64          `json:"timestamp"`
	Sequence   int64          `json:"sequenceNumber"`
	LevelName  string         `json:"level"`
	Thread     string         `json:"thread"`
	Message    string         `json:"message"`
	Context    *string        `json:"ndc,omitempty"`
	Throwable  []string       `json:"throwable,omitempty"`
	Location   *LocationInfo  `json:"locationInfo,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

var _ Record = (*Event)(nil)

// NewEvent creates an Event stamped with t and the next process-wide
// sequence number.
func NewEvent(logger, level, thread, message string, t time.Time) *Event {
	return &Event{
		Logger:    logger,
		Timestamp: t.UnixMilli(),
		Sequence:  NextSequence(),
		LevelName: level,
		Thread:    thread,
		Message:   message,
	}
}

func (e *Event) LoggerName() string      { return e.Logger }
func (e *Event) TimeStamp() int64        { return e.Timestamp }
func (e *Event) SequenceNumber() int64   { return e.Sequence }
func (e *Event) Level() string           { return e.LevelName }
func (e *Event) ThreadName() string      { return e.Thread }
func (e *Event) RenderedMessage() string { return e.Message }

func (e *Event) NDC() (string, bool) {
	if e.Context == nil {
		return "", false
	}
	return *e.Context, true
}

// SetNDC sets the nested diagnostic context.
func (e *Event) SetNDC(ndc string) {
	e.Context = &ndc
}

func (e *Event) ThrowableStrRep() []string          { return e.Throwable }
func (e *Event) LocationInformation() *LocationInfo { return e.Location }

// SetProperty adds or replaces a property, allocating the map on first use.
func (e *Event) SetProperty(key string, value any) {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
}

// PropertyKeys returns the property keys sorted lexically so that the
// rendered fragment is deterministic.
func (e *Event) PropertyKeys() []string {
	if len(e.Properties) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Event) Property(key string) any {
	return e.Properties[key]
}
