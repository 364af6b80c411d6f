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
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

func testEvent(seq int64) *xmllayout.Event {
	ev := xmllayout.NewEvent("com.example.App", "INFO", "main", "hello", time.UnixMilli(1700000000000))
	ev.Sequence = seq
	return ev
}

const wantFragment = "<log4j:event logger=\"com.example.App\" timestamp=\"1700000000000\" sequenceNumber=\"1\" level=\"INFO\" thread=\"main\">\r\n" +
	"<log4j:message><![CDATA[hello]]></log4j:message>\r\n" +
	"</log4j:event>\r\n\r\n"

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	layout := xmllayout.New(xmllayout.Options{})
	writer := NewWriter(&buf, layout)

	if writer == nil {
		t.Fatal("NewWriter returned nil")
	}
	if writer.output != &buf {
		t.Error("Writer output doesn't match provided buffer")
	}
	if writer.layout != layout {
		t.Error("Writer layout doesn't match provided layout")
	}
	if writer.count != 0 {
		t.Errorf("Initial count should be 0, got %d", writer.count)
	}
}

func TestWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf, xmllayout.New(xmllayout.Options{}))

	if err := writer.Write(testEvent(1)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != wantFragment {
		t.Errorf("Write output = %q, want %q", got, wantFragment)
	}

	if err := writer.Write(testEvent(1)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != wantFragment+wantFragment {
		t.Errorf("second fragment not appended: %q", got)
	}
	if writer.Count() != 2 {
		t.Errorf("Count() = %d, want 2", writer.Count())
	}

	// Bare writers never frame.
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if strings.Contains(buf.String(), "eventSet") {
		t.Error("bare writer wrote document framing")
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	writer := NewWriter(io.Discard, xmllayout.New(xmllayout.Options{}))
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close error = %v, want nil", err)
	}
	if err := writer.Write(testEvent(1)); !errors.Is(err, xmlerrors.ErrSinkWrite) {
		t.Errorf("Write after Close error = %v, want ErrSinkWrite", err)
	}
}

type failingWriter struct {
	err error
}

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriter_WriteError(t *testing.T) {
	sinkErr := errors.New("disk full")
	writer := NewWriter(failingWriter{err: sinkErr}, xmllayout.New(xmllayout.Options{}))

	err := writer.Write(testEvent(1))
	if !errors.Is(err, xmlerrors.ErrSinkWrite) {
		t.Errorf("error = %v, want ErrSinkWrite", err)
	}
	if !errors.Is(err, sinkErr) {
		t.Errorf("error = %v, want wrapped sink error", err)
	}
	if writer.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after failed write", writer.Count())
	}
}

// countingWriter records the size of every Write call.
type countingWriter struct {
	mu     sync.Mutex
	writes []int
	buf    bytes.Buffer
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, len(p))
	return c.buf.Write(p)
}

func TestWriter_ConcurrentFragmentsDoNotInterleave(t *testing.T) {
	sink := &countingWriter{}
	writer := NewWriter(sink, xmllayout.New(xmllayout.Options{}))

	const goroutines, perGoroutine = 8, 50
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				if err := writer.Write(testEvent(1)); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if writer.Count() != goroutines*perGoroutine {
		t.Errorf("Count() = %d, want %d", writer.Count(), goroutines*perGoroutine)
	}
	if len(sink.writes) != goroutines*perGoroutine {
		t.Errorf("sink saw %d writes, want one per fragment", len(sink.writes))
	}
	want := strings.Repeat(wantFragment, goroutines*perGoroutine)
	if sink.buf.String() != want {
		t.Error("fragments were interleaved")
	}
}

func TestDocumentWriter(t *testing.T) {
	tests := []struct {
		name    string
		version string
		events  int
		want    string
	}{
		{
			name:    "default version",
			version: "",
			events:  1,
			want: "<?xml version=\"1.0\" ?>\r\n" +
				"<log4j:eventSet version=\"1.2\" xmlns:log4j=\"http://jakarta.apache.org/log4j/\">\r\n" +
				wantFragment +
				"</log4j:eventSet>\r\n",
		},
		{
			name:    "version 1.1",
			version: "1.1",
			events:  2,
			want: "<?xml version=\"1.0\" ?>\r\n" +
				"<log4j:eventSet version=\"1.1\" xmlns:log4j=\"http://jakarta.apache.org/log4j/\">\r\n" +
				wantFragment + wantFragment +
				"</log4j:eventSet>\r\n",
		},
		{
			name:    "empty document",
			version: "1.2",
			events:  0,
			want: "<?xml version=\"1.0\" ?>\r\n" +
				"<log4j:eventSet version=\"1.2\" xmlns:log4j=\"http://jakarta.apache.org/log4j/\">\r\n" +
				"</log4j:eventSet>\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewDocumentWriter(&buf, xmllayout.New(xmllayout.Options{}), tt.version)
			for i := 0; i < tt.events; i++ {
				if err := writer.Write(testEvent(1)); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("document = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestDocumentWriter_ParsesAsXML(t *testing.T) {
	var buf bytes.Buffer
	layout := xmllayout.New(xmllayout.Options{LocationInfo: true})
	writer := NewDocumentWriter(&buf, layout, "1.2")

	ev := testEvent(7)
	ev.Message = "payload with ]]> inside"
	ev.Location = &xmllayout.LocationInfo{ClassName: "main", MethodName: "run<T>", FileName: "main.go", LineNumber: "12"}
	ev.SetProperty("user", "alice")
	if err := writer.Write(ev); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Write(testEvent(8)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var doc struct {
		Version string `xml:"version,attr"`
		Events  []struct {
			Sequence string `xml:"sequenceNumber,attr"`
			Message  string `xml:"message"`
		} `xml:"event"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("document does not parse: %v\n%s", err, buf.String())
	}
	if doc.Version != "1.2" {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("parsed %d events, want 2", len(doc.Events))
	}
	if doc.Events[0].Message != "payload with ]]> inside" {
		t.Errorf("message = %q", doc.Events[0].Message)
	}
	if doc.Events[1].Sequence != "8" {
		t.Errorf("sequenceNumber = %q, want 8", doc.Events[1].Sequence)
	}
}

func TestNewFileWriter(t *testing.T) {
	tempDir := t.TempDir()
	layout := xmllayout.New(xmllayout.Options{})

	t.Run("plain", func(t *testing.T) {
		filename := filepath.Join(tempDir, "events.xml")
		writer, err := NewFileWriter(filename, layout, FileOptions{})
		if err != nil {
			t.Fatalf("NewFileWriter failed: %v", err)
		}
		if err := writer.Write(testEvent(1)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(content) != wantFragment {
			t.Errorf("file content = %q", content)
		}
	})

	t.Run("append", func(t *testing.T) {
		filename := filepath.Join(tempDir, "append.xml")
		for i := 0; i < 2; i++ {
			writer, err := NewFileWriter(filename, layout, FileOptions{Append: true})
			if err != nil {
				t.Fatalf("NewFileWriter failed: %v", err)
			}
			if err := writer.Write(testEvent(1)); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
		}

		content, _ := os.ReadFile(filename)
		if string(content) != wantFragment+wantFragment {
			t.Errorf("appended content = %q", content)
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := NewFileWriter(filepath.Join(tempDir, "missing", "dir", "x.xml"), layout, FileOptions{})
		if err == nil {
			t.Error("Expected error for invalid path")
		}
	})
}

func TestNewFileWriter_Compressed(t *testing.T) {
	layout := xmllayout.New(xmllayout.Options{})

	for _, c := range []codec.Compression{codec.Gzip, codec.Zstd, codec.Snappy, codec.Brotli, codec.LZ4} {
		t.Run(string(c), func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "events.xml")
			writer, err := NewFileWriter(filename, layout, FileOptions{Compression: c, Document: true})
			if err != nil {
				t.Fatalf("NewFileWriter failed: %v", err)
			}
			for i := 0; i < 3; i++ {
				if err := writer.Write(testEvent(1)); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			f, err := os.Open(filename)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			r, err := codec.NewReader(f, c)
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer r.Close()
			content, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("decompress failed: %v", err)
			}
			if strings.Count(string(content), "<log4j:event ") != 3 {
				t.Errorf("decompressed document has wrong event count:\n%s", content)
			}
			if !strings.HasSuffix(string(content), "</log4j:eventSet>\r\n") {
				t.Error("decompressed document is missing its footer")
			}
		})
	}
}

func TestNewStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewStreamWriter(&buf, xmllayout.New(xmllayout.Options{}), FileOptions{Compression: codec.Zstd, Document: true, Version: "1.1"})
	if err != nil {
		t.Fatalf("NewStreamWriter failed: %v", err)
	}
	if err := writer.Write(testEvent(1)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := codec.NewReader(&buf, codec.Zstd)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !strings.HasPrefix(string(content), "<?xml version=\"1.0\" ?>\r\n<log4j:eventSet version=\"1.1\"") {
		t.Errorf("content = %q", content)
	}

	if _, err := NewStreamWriter(&buf, xmllayout.New(xmllayout.Options{}), FileOptions{Compression: "rar"}); err == nil {
		t.Error("expected error for unknown compression")
	}
}
