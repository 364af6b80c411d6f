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
	"testing"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// Compile-time check that Writer implements OutputWriter
var _ OutputWriter = (*Writer)(nil)

func TestWriterImplementsInterface(t *testing.T) {
	buf := &bytes.Buffer{}
	var w OutputWriter = NewWriter(buf, xmllayout.New(xmllayout.Options{}))

	if err := w.Write(testEvent(1)); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected data to be written to buffer")
	}
}
