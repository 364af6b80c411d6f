package sinkerror

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"
)

// Inspector provides methods for analyzing sink write errors.
type Inspector interface {
	// IsBrokenPipe reports whether the reader on the other end went away.
	IsBrokenPipe(err error) bool

	// IsNoSpace reports whether the device or quota is exhausted.
	IsNoSpace(err error) bool

	// IsClosed reports whether the sink was already closed.
	IsClosed(err error) bool

	// IsPermission reports whether the sink refused access.
	IsPermission(err error) bool
}

// SinkErrorInspector implements Inspector using errors.Is against the
// platform errors, falling back to message inspection for wrapped errors
// that lost their type (for example across compression writers).
type SinkErrorInspector struct{}

// NewInspector creates a new SinkErrorInspector.
func NewInspector() Inspector {
	return &SinkErrorInspector{}
}

// IsBrokenPipe checks if the error is a broken pipe.
func (i *SinkErrorInspector) IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "broken pipe")
}

// IsNoSpace checks if the error reports an exhausted device.
func (i *SinkErrorInspector) IsNoSpace(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ENOSPC) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no space left") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsClosed checks if the error reports a write to a closed sink.
func (i *SinkErrorInspector) IsClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrClosed) || errors.Is(err, fs.ErrClosed) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "file already closed")
}

// IsPermission checks if the error is a permission failure.
func (i *SinkErrorInspector) IsPermission(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "permission denied")
}

// Describe returns a short operator-facing explanation of err, or an empty
// string when the failure is not recognized.
func Describe(in Inspector, err error) string {
	switch {
	case in.IsBrokenPipe(err):
		return "the output reader closed the pipe"
	case in.IsNoSpace(err):
		return "the output device is full"
	case in.IsClosed(err):
		return "the output was closed before writing finished"
	case in.IsPermission(err):
		return "permission denied writing output"
	default:
		return ""
	}
}
