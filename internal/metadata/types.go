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

// Package metadata types define the structures used for tracking and
// persisting information about conversion runs.
package metadata

import (
	"time"
)

// ConvertMetadata is the record of a single conversion run: what was read,
// how it was rendered and what came out.
type ConvertMetadata struct {
	ToolVersion string         `json:"tool_version"`
	RunID       string         `json:"run_id"`
	Parameters  ConvertParams  `json:"parameters"`
	Results     ConvertResults `json:"results"`
	Incremental bool           `json:"incremental"`
	PreviousRun *RunRef        `json:"previous_run,omitempty"`
}

// ConvertParams captures the settings a run was started with.
type ConvertParams struct {
	Input        string `json:"input"`
	Source       string `json:"source"`
	Output       string `json:"output"`
	LocationInfo bool   `json:"location_info"`
	Document     bool   `json:"document"`
	Version      string `json:"version,omitempty"`
	Compression  string `json:"compression"`
	Upload       string `json:"upload,omitempty"`
}

// ConvertResults holds statistics about the events written by a run.
type ConvertResults struct {
	TotalEvents    int            `json:"total_events"`
	Levels         map[string]int `json:"levels"`
	WithNDC        int            `json:"with_ndc"`
	WithThrowable  int            `json:"with_throwable"`
	WithLocation   int            `json:"with_location"`
	WithProperties int            `json:"with_properties"`
	FirstSequence  int64          `json:"first_sequence"`
	LastSequence   int64          `json:"last_sequence"`
	OldestEvent    time.Time      `json:"oldest_event"`
	NewestEvent    time.Time      `json:"newest_event"`
	Duration       string         `json:"duration"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
}

// RunRef links an incremental run to the run it continued.
type RunRef struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
}
