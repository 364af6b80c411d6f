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

package testutil

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FragmentTerminator ends every log4j:event fragment.
const FragmentTerminator = "</log4j:event>\r\n\r\n"

// AssertFragmentCount checks that content holds exactly want event fragments
func AssertFragmentCount(t *testing.T, content string, want int) {
	t.Helper()

	if got := strings.Count(content, "<log4j:event "); got != want {
		t.Errorf("Expected %d event fragments, got %d", want, got)
	}
	if got := strings.Count(content, FragmentTerminator); got != want {
		t.Errorf("Expected %d fragment terminators, got %d", want, got)
	}
}

// ParsedEvent is the subset of a log4j:event checked by tests
type ParsedEvent struct {
	Logger    string `xml:"logger,attr"`
	Timestamp string `xml:"timestamp,attr"`
	Sequence  string `xml:"sequenceNumber,attr"`
	Level     string `xml:"level,attr"`
	Thread    string `xml:"thread,attr"`
	Message   string `xml:"message"`
	NDC       string `xml:"NDC"`
	Throwable string `xml:"throwable"`
	Location  *struct {
		Class  string `xml:"class,attr"`
		Method string `xml:"method,attr"`
		File   string `xml:"file,attr"`
		Line   string `xml:"line,attr"`
	} `xml:"locationInfo"`
	Properties []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	} `xml:"properties>data"`
}

// ParseDocument parses a log4j:eventSet document and returns its events
func ParseDocument(t *testing.T, content string) []ParsedEvent {
	t.Helper()

	var doc struct {
		Version string        `xml:"version,attr"`
		Events  []ParsedEvent `xml:"event"`
	}
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		t.Fatalf("Document is not well-formed XML: %v\n%s", err, content)
	}
	return doc.Events
}

// ParseFragments wraps bare fragments in an eventSet and parses them
func ParseFragments(t *testing.T, content string) []ParsedEvent {
	t.Helper()

	wrapped := `<log4j:eventSet xmlns:log4j="http://jakarta.apache.org/log4j/">` + content + `</log4j:eventSet>`
	return ParseDocument(t, wrapped)
}

// AssertMetadataFile validates that a run metadata file exists for input
func AssertMetadataFile(t *testing.T, dir string, input string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "convert-metadata-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("No metadata file found")
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read metadata file: %v", err)
		}

		var metadata map[string]interface{}
		if err := json.Unmarshal(data, &metadata); err != nil {
			t.Fatalf("Invalid metadata JSON: %v", err)
		}

		params, _ := metadata["parameters"].(map[string]interface{})
		if params["input"] != input {
			continue
		}
		for _, field := range []string{"tool_version", "run_id", "parameters", "results"} {
			if _, ok := metadata[field]; !ok {
				t.Errorf("Missing required metadata field: %s", field)
			}
		}
		return
	}
	t.Fatalf("No metadata file for input %s", input)
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
