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

package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// Source yields records one at a time.
type Source interface {
	// Next returns the next record, or io.EOF when the source is exhausted.
	Next(ctx context.Context) (*xmllayout.Event, error)

	// Ack marks every record returned so far as durably handled.
	Ack(ctx context.Context) error

	// Close releases the source.
	Close() error
}

// presence captures which required fields a record carried.
type presence struct {
	Logger    json.RawMessage `json:"logger"`
	Timestamp json.RawMessage `json:"timestamp"`
	Sequence  json.RawMessage `json:"sequenceNumber"`
	Level     json.RawMessage `json:"level"`
	Thread    json.RawMessage `json:"thread"`
	Message   json.RawMessage `json:"message"`
}

func (p *presence) missing() string {
	switch {
	case absent(p.Logger):
		return "logger"
	case absent(p.Timestamp):
		return "timestamp"
	case absent(p.Level):
		return "level"
	case absent(p.Thread):
		return "thread"
	case absent(p.Message):
		return "message"
	}
	return ""
}

// absent reports whether a required field was omitted or set to null.
func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// DecodeEvent parses one JSON record. Numeric property values keep their
// original text. A record without a sequenceNumber is assigned the next
// process-wide sequence number.
func DecodeEvent(data []byte) (*xmllayout.Event, error) {
	var p presence
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", xmlerrors.ErrInvalidRecord, err)
	}
	if field := p.missing(); field != "" {
		return nil, fmt.Errorf("%w: missing required field %q", xmlerrors.ErrInvalidRecord, field)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var ev xmllayout.Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("%w: %v", xmlerrors.ErrInvalidRecord, err)
	}
	if len(p.Sequence) == 0 {
		ev.Sequence = xmllayout.NextSequence()
	}
	return &ev, nil
}
