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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
)

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"general", errors.New("boom"), 1},
		{"invalid record", fmt.Errorf("app.ndjson line 3: %w: missing required field \"logger\"", xmlerrors.ErrInvalidRecord), 2},
		{"incompatible options", fmt.Errorf("%w: --incremental requires --output", xmlerrors.ErrIncompatibleOptions), 2},
		{"no state", fmt.Errorf("%w: no run metadata", xmlerrors.ErrNoState), 2},
		{"sink write", fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, syscall.EPIPE), 3},
		{"upload", fmt.Errorf("%w: s3://b/k: denied", xmlerrors.ErrUpload), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	t.Run("sink failure gets a hint", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, syscall.EPIPE))

		out := buf.String()
		if !strings.HasPrefix(out, "Error: output write failed") {
			t.Errorf("unexpected error line: %q", out)
		}
		if !strings.Contains(out, "Hint: ") {
			t.Errorf("expected a hint for a broken pipe, got: %q", out)
		}
	})

	t.Run("other errors print one line", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, errors.New("boom"))

		if got := buf.String(); got != "Error: boom\n" {
			t.Errorf("reportError() = %q, want %q", got, "Error: boom\n")
		}
	})
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"convert", "inspect"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q) error: %v", name, err)
		}
		if cmd.Name() != name {
			t.Errorf("Find(%q) = %q", name, cmd.Name())
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(stdout.String(), version) {
		t.Errorf("version output %q does not mention %q", stdout.String(), version)
	}
}
