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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Reader reads newline-delimited JSON records.
type Reader struct {
	name      string
	scanner   *bufio.Scanner
	line      int64
	closeFunc func() error
}

// NewReader creates a reader over r. name identifies the input in errors.
// Lines longer than maxLineBytes are rejected; a non-positive limit selects
// bufio.MaxScanTokenSize.
func NewReader(r io.Reader, name string, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = bufio.MaxScanTokenSize
	}
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if maxLineBytes < initial {
		initial = maxLineBytes
	}
	scanner.Buffer(make([]byte, 0, initial), maxLineBytes)
	return &Reader{
		name:    name,
		scanner: scanner,
	}
}

// OpenFile opens path for reading, or stdin when path is "-". Files whose
// extension names a compression format are decompressed transparently.
func OpenFile(path string, maxLineBytes int) (*Reader, error) {
	if path == Stdin {
		return NewReader(os.Stdin, "stdin", maxLineBytes), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	c := codec.FromPath(path)
	zr, err := codec.NewReader(file, c)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open %s input %s: %w", c, path, err)
	}

	r := NewReader(zr, path, maxLineBytes)
	r.closeFunc = func() error {
		zerr := zr.Close()
		ferr := file.Close()
		if zerr != nil {
			return zerr
		}
		return ferr
	}
	return r, nil
}

// Line returns the number of lines consumed so far, blank lines included.
func (r *Reader) Line() int64 {
	return r.line
}

// Skip consumes n lines without decoding them. It is used to resume an
// incremental conversion and fails if the input has fewer than n lines.
func (r *Reader) Skip(n int64) error {
	for r.line < n {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return fmt.Errorf("%s: line %d: %w", r.name, r.line+1, err)
			}
			return fmt.Errorf("%s has %d lines, checkpoint expects at least %d", r.name, r.line, n)
		}
		r.line++
	}
	return nil
}

// Next returns the next record. Blank lines are skipped. At end of input it
// returns io.EOF.
func (r *Reader) Next(ctx context.Context) (*xmllayout.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, fmt.Errorf("%s: line %d: %w", r.name, r.line+1, err)
			}
			return nil, io.EOF
		}
		r.line++

		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.name, r.line, err)
		}
		return ev, nil
	}
}

// Ack is a no-op; file progress is checkpointed by the caller using Line.
func (r *Reader) Ack(context.Context) error {
	return nil
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closeFunc != nil {
		return r.closeFunc()
	}
	return nil
}

var _ Source = (*Reader)(nil)
