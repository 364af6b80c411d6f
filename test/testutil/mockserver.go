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

// Package testutil provides common test helpers for eventxml
package testutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// StoredObject is an object received by S3Server
type StoredObject struct {
	Body            []byte
	ContentType     string
	ContentEncoding string
}

// S3Server is an in-memory stand-in for the S3 PutObject API using
// path-style addressing (/bucket/key).
type S3Server struct {
	*httptest.Server
	RequestCount int32

	mu      sync.Mutex
	objects map[string]StoredObject
	status  int
}

// NewS3Server starts a mock S3 endpoint that stores every uploaded object
func NewS3Server(t *testing.T) *S3Server {
	t.Helper()

	s := &S3Server{objects: make(map[string]StoredObject)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailWith makes every following request fail with status
func (s *S3Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Object returns the object stored under bucket/key
func (s *S3Server) Object(bucket, key string) (StoredObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[bucket+"/"+key]
	return obj, ok
}

// Requests returns the number of requests served
func (s *S3Server) Requests() int {
	return int(atomic.LoadInt32(&s.RequestCount))
}

func (s *S3Server) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.RequestCount, 1)

	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	if status != 0 {
		writeS3Error(w, status, "AccessDenied", "Access Denied")
		return
	}

	if r.Method != http.MethodPut {
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "only PutObject is supported")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, ok := strings.Cut(path, "/")
	if !ok || bucket == "" || key == "" {
		writeS3Error(w, http.StatusBadRequest, "InvalidRequest", "expected /bucket/key")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeS3Error(w, http.StatusBadRequest, "IncompleteBody", err.Error())
		return
	}

	encoding := r.Header.Get("Content-Encoding")
	if strings.Contains(encoding, "aws-chunked") {
		if body, err = decodeAWSChunked(body); err != nil {
			writeS3Error(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		encoding = stripEncoding(encoding, "aws-chunked")
	}

	s.mu.Lock()
	s.objects[bucket+"/"+key] = StoredObject{
		Body:            body,
		ContentType:     r.Header.Get("Content-Type"),
		ContentEncoding: encoding,
	}
	s.mu.Unlock()

	w.Header().Set("ETag", fmt.Sprintf("%q", strconv.Itoa(len(body))))
	w.WriteHeader(http.StatusOK)
}

func writeS3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Error><Code>%s</Code><Message>%s</Message></Error>", code, message)
}

// decodeAWSChunked strips the aws-chunked framing some SDK versions use
// to stream payloads with trailing checksums.
func decodeAWSChunked(data []byte) ([]byte, error) {
	var out bytes.Buffer
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("chunk header: %w", err)
		}
		sizeField, _, _ := strings.Cut(strings.TrimSpace(header), ";")
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("chunk size %q: %w", sizeField, err)
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, r, size); err != nil {
			return nil, fmt.Errorf("chunk body: %w", err)
		}
		if _, err := r.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("chunk terminator: %w", err)
		}
	}
}

func stripEncoding(header, drop string) string {
	var kept []string
	for _, part := range strings.Split(header, ",") {
		if part = strings.TrimSpace(part); part != "" && part != drop {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ",")
}
