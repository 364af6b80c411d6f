// Package codec wraps output sinks and input sources with the stream
// compression formats supported by the CLI.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression names a stream compression format.
type Compression string

const (
	None   Compression = "none"
	Gzip   Compression = "gzip"
	Zstd   Compression = "zstd"
	Snappy Compression = "snappy"
	Brotli Compression = "brotli"
	LZ4    Compression = "lz4"
)

var extensions = map[string]Compression{
	".gz":     Gzip,
	".zst":    Zstd,
	".sz":     Snappy,
	".snappy": Snappy,
	".br":     Brotli,
	".lz4":    LZ4,
}

// ParseCompression parses a compression name. The empty string means None.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", None:
		return None, nil
	case Gzip, Zstd, Snappy, Brotli, LZ4:
		return c, nil
	default:
		return None, fmt.Errorf("unsupported compression %q", s)
	}
}

// FromPath infers the compression of a file from its extension.
func FromPath(path string) Compression {
	if c, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return None
}

// Concatenable reports whether independently compressed streams of this
// format may be appended to one another and still decode as one stream.
func (c Compression) Concatenable() bool {
	return c != Brotli
}

// ContentEncoding returns the HTTP Content-Encoding token for c, or "" when
// there is no registered token.
func (c Compression) ContentEncoding() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Brotli:
		return "br"
	default:
		return ""
	}
}

// NewWriter wraps w with a compressor. Closing the returned writer flushes
// the compressor but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case Brotli:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}

// NewReader wraps r with a decompressor. Closing the returned reader
// releases decoder resources but does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}
