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
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (r *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = in
	if in.Body != nil {
		r.body, _ = io.ReadAll(in.Body)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.xml.gz")
	if err := os.WriteFile(path, []byte("compressed-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	putter := &recordingPutter{}
	if err := UploadFile(context.Background(), putter, "logs", "2025/events.xml.gz", path, codec.Gzip); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	in := putter.input
	if aws.ToString(in.Bucket) != "logs" || aws.ToString(in.Key) != "2025/events.xml.gz" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/xml" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if aws.ToString(in.ContentEncoding) != "gzip" {
		t.Errorf("ContentEncoding = %q, want gzip", aws.ToString(in.ContentEncoding))
	}
	if string(putter.body) != "compressed-bytes" {
		t.Errorf("body = %q", putter.body)
	}
}

func TestUploadFile_NoEncodingForPlainFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	putter := &recordingPutter{}
	if err := UploadFile(context.Background(), putter, "logs", "events.xml", path, codec.None); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if putter.input.ContentEncoding != nil {
		t.Errorf("ContentEncoding = %q, want unset", aws.ToString(putter.input.ContentEncoding))
	}
}

func TestUploadFile_Errors(t *testing.T) {
	putErr := errors.New("access denied")
	path := filepath.Join(t.TempDir(), "events.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := UploadFile(context.Background(), &recordingPutter{err: putErr}, "logs", "k", path, codec.None)
	if !errors.Is(err, xmlerrors.ErrUpload) || !errors.Is(err, putErr) {
		t.Errorf("error = %v, want ErrUpload wrapping put error", err)
	}

	err = UploadFile(context.Background(), &recordingPutter{}, "logs", "k", filepath.Join(t.TempDir(), "missing"), codec.None)
	if !errors.Is(err, xmlerrors.ErrUpload) {
		t.Errorf("missing file error = %v, want ErrUpload", err)
	}
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(context.Background(), S3Options{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566",
		ForcePathStyle:  true,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Client failed: %v", err)
	}
	opts := client.Options()
	if !opts.UsePathStyle {
		t.Error("UsePathStyle = false, want true")
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:4566" {
		t.Errorf("BaseEndpoint = %q", aws.ToString(opts.BaseEndpoint))
	}
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q", opts.Region)
	}
}
