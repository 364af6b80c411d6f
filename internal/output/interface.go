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

import "github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"

// OutputWriter defines the interface for writing formatted events.
// The CLI depends on this abstraction so tests can substitute a failing or
// recording sink.
type OutputWriter interface {
	// Write formats a single record and writes it to the output.
	// The fragment is written in one piece before Write returns.
	Write(rec xmllayout.Record) error

	// Count returns the number of records written successfully.
	Count() int

	// Close finishes the document, if any, and releases the underlying sink.
	Close() error
}
