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

package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// Namespace is the XML namespace bound to the log4j prefix.
const Namespace = "http://jakarta.apache.org/log4j/"

// DefaultVersion is the eventSet version written when none is configured.
const DefaultVersion = "1.2"

// Writer handles streaming fragment output to a file or io.Writer.
// Each record is formatted into a private buffer and written with a single
// call, so fragments from concurrent writers never interleave.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	layout    *xmllayout.Layout
	buf       bytes.Buffer
	count     int
	header    string
	footer    string
	started   bool
	closed    bool
	closeFunc func() error
}

// FileOptions controls how a writer compresses and frames its output.
type FileOptions struct {
	// Compression wraps the output in a stream compressor.
	Compression codec.Compression
	// Document frames the fragments in a log4j:eventSet element.
	Document bool
	// Version is the eventSet version attribute. Defaults to DefaultVersion.
	Version string
	// Append opens an existing file for appending instead of truncating it.
	// Only NewFileWriter honors it.
	Append bool
}

// NewWriter creates a writer that writes bare fragments to w.
func NewWriter(w io.Writer, layout *xmllayout.Layout) *Writer {
	return &Writer{
		output: w,
		layout: layout,
	}
}

// NewDocumentWriter creates a writer that frames its fragments in a
// log4j:eventSet document. The header is written before the first fragment
// and the footer on Close.
func NewDocumentWriter(w io.Writer, layout *xmllayout.Layout, version string) *Writer {
	wr := NewWriter(w, layout)
	wr.header, wr.footer = documentFrame(version)
	return wr
}

// NewStreamWriter creates a writer on w with the compression and framing in
// opts. Close flushes the compressor but leaves w open.
func NewStreamWriter(w io.Writer, layout *xmllayout.Layout, opts FileOptions) (*Writer, error) {
	zw, err := codec.NewWriter(w, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s compressor: %w", opts.Compression, err)
	}

	wr := NewWriter(zw, layout)
	if opts.Document {
		wr.header, wr.footer = documentFrame(opts.Version)
	}
	wr.closeFunc = zw.Close
	return wr, nil
}

// NewFileWriter creates a writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string, layout *xmllayout.Layout, opts FileOptions) (*Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if opts.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	wr, err := NewStreamWriter(file, layout, opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	closeCompressor := wr.closeFunc
	wr.closeFunc = func() error {
		zerr := closeCompressor()
		ferr := file.Close()
		if zerr != nil {
			return zerr
		}
		return ferr
	}
	return wr, nil
}

func documentFrame(version string) (header, footer string) {
	if version == "" {
		version = DefaultVersion
	}
	header = "<?xml version=\"1.0\" ?>\r\n" +
		"<log4j:eventSet version=\"" + version + "\" xmlns:log4j=\"" + Namespace + "\">\r\n"
	footer = "</log4j:eventSet>\r\n"
	return header, footer
}

// Write formats a single record and writes the fragment to the output.
// A failed write is wrapped in ErrSinkWrite and is not counted.
func (w *Writer) Write(rec xmllayout.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("%w: writer is closed", xmlerrors.ErrSinkWrite)
	}

	w.buf.Reset()
	if !w.started {
		w.buf.WriteString(w.header)
	}
	// Format only fails when its sink does; a bytes.Buffer never does.
	_ = w.layout.Format(&w.buf, rec)

	if _, err := w.output.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, err)
	}
	w.started = true
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close writes the document footer, if framing is enabled, then closes the
// compressor and the underlying file. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.footer != "" {
		tail := w.footer
		if !w.started {
			tail = w.header + tail
		}
		if _, werr := io.WriteString(w.output, tail); werr != nil {
			err = fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, werr)
		}
	}

	if w.closeFunc != nil {
		if cerr := w.closeFunc(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, cerr)
		}
	}
	return err
}
