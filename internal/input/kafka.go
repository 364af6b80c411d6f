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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// DefaultIdleTimeout is how long KafkaSource waits for a message before
// treating the topic as drained.
const DefaultIdleTimeout = 5 * time.Second

// MessageReader is the subset of *kafka.Reader used by KafkaSource.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOptions configures a KafkaSource.
type KafkaOptions struct {
	Brokers []string
	Topic   string
	// GroupID enables consumer-group offsets. Without it nothing is committed
	// and every run starts at StartAt.
	GroupID string
	// StartAt is "first" or "last".
	StartAt string
	// MaxMessages stops the source after this many records. Zero means no limit.
	MaxMessages int
	// IdleTimeout ends the source when no message arrives in time.
	IdleTimeout time.Duration
}

// KafkaSource reads one JSON record per Kafka message.
type KafkaSource struct {
	reader  MessageReader
	opts    KafkaOptions
	count   int
	pending []kafka.Message
}

// NewKafkaSource connects a reader for opts.Topic.
func NewKafkaSource(opts KafkaOptions) (*KafkaSource, error) {
	if len(opts.Brokers) == 0 {
		return nil, fmt.Errorf("kafka source requires at least one broker")
	}
	if opts.Topic == "" {
		return nil, fmt.Errorf("kafka source requires a topic")
	}

	cfg := kafka.ReaderConfig{
		Brokers:  append([]string(nil), opts.Brokers...),
		Topic:    opts.Topic,
		GroupID:  opts.GroupID,
		MaxBytes: 1_000_000,
	}
	switch strings.ToLower(opts.StartAt) {
	case "last", "latest":
		cfg.StartOffset = kafka.LastOffset
	default:
		cfg.StartOffset = kafka.FirstOffset
	}

	return NewKafkaSourceFromReader(kafka.NewReader(cfg), opts), nil
}

// NewKafkaSourceFromReader wraps an existing reader.
func NewKafkaSourceFromReader(r MessageReader, opts KafkaOptions) *KafkaSource {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &KafkaSource{reader: r, opts: opts}
}

// Count returns the number of records returned so far.
func (s *KafkaSource) Count() int {
	return s.count
}

// Next fetches and decodes the next message. It returns io.EOF once
// MaxMessages records were returned or the topic stays idle for
// IdleTimeout.
func (s *KafkaSource) Next(ctx context.Context) (*xmllayout.Event, error) {
	if s.opts.MaxMessages > 0 && s.count >= s.opts.MaxMessages {
		return nil, io.EOF
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.IdleTimeout)
	defer cancel()

	msg, err := s.reader.FetchMessage(fetchCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("kafka fetch from %s: %w", s.opts.Topic, err)
	}

	ev, err := DecodeEvent(msg.Value)
	if err != nil {
		return nil, fmt.Errorf("%s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	s.pending = append(s.pending, msg)
	s.count++
	return ev, nil
}

// Ack commits the offsets of every message returned since the previous
// Ack. It is a no-op without a consumer group.
func (s *KafkaSource) Ack(ctx context.Context) error {
	if s.opts.GroupID == "" || len(s.pending) == 0 {
		s.pending = s.pending[:0]
		return nil
	}
	if err := s.reader.CommitMessages(ctx, s.pending...); err != nil {
		return fmt.Errorf("kafka commit to %s: %w", s.opts.Topic, err)
	}
	s.pending = s.pending[:0]
	return nil
}

// Close closes the underlying reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

var _ Source = (*KafkaSource)(nil)
