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

package xmllayout

import (
	"io"
	"strings"
)

const (
	// CDATAStart opens a CDATA section.
	CDATAStart = "<![CDATA["
	// CDATAEnd closes a CDATA section.
	CDATAEnd = "]]>"

	// cdataEmbeddedEnd replaces an embedded CDATAEnd. The current section is
	// closed after "]]" and a new one opened before ">", so no section ever
	// contains CDATAEnd and the parsed contents concatenate to the input.
	cdataEmbeddedEnd = "]]" + CDATAEnd + CDATAStart + ">"
)

var tagReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeTags replaces markup-significant characters with entity references.
// It is a single pass, so escaping an escaped string escapes it again.
func EscapeTags(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	return tagReplacer.Replace(s)
}

// EscapeCDATA splits every embedded CDATAEnd so that s can be placed inside a
// CDATA section.
func EscapeCDATA(s string) string {
	return strings.ReplaceAll(s, CDATAEnd, cdataEmbeddedEnd)
}

// AppendEscapingCDATA writes s to w with the EscapeCDATA transform applied,
// without building the escaped string.
func AppendEscapingCDATA(w io.Writer, s string) error {
	for {
		i := strings.Index(s, CDATAEnd)
		if i < 0 {
			break
		}
		if _, err := io.WriteString(w, s[:i]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, cdataEmbeddedEnd); err != nil {
			return err
		}
		s = s[i+len(CDATAEnd):]
	}
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}
