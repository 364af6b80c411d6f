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

package state

import (
	"time"
)

// CurrentVersion is the schema version written by SaveState.
const CurrentVersion = 1

// ConversionState is the checkpoint of an incremental conversion.
type ConversionState struct {
	// Version indicates the schema version of this state file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the state content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Input is the absolute path of the converted NDJSON file.
	Input string `json:"input"`

	// Output is the absolute path of the file the fragments were appended to.
	Output string `json:"output"`

	// LinesConsumed is the number of input lines already converted,
	// blank lines included. The next run skips this many lines.
	LinesConsumed int64 `json:"lines_consumed"`

	// EventsWritten is the total number of fragments written across runs.
	EventsWritten int64 `json:"events_written"`

	// LastSequence is the sequenceNumber of the last event written.
	LastSequence int64 `json:"last_sequence"`

	// LastTimestamp is the timestamp of the last event written.
	LastTimestamp time.Time `json:"last_timestamp"`

	// LastRunID correlates the checkpoint with its run metadata file.
	LastRunID string `json:"last_run_id"`

	// LastRunTime records when the last conversion completed successfully.
	LastRunTime time.Time `json:"last_run_time"`
}
