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

// Package metadata provides functionality for tracking and persisting metadata
// about conversion runs. It records how many events were written, their level
// mix, which optional sections they carried, and the sequence and time range
// covered, and links incremental runs to their predecessors.
//
// Metadata is saved as JSON files alongside state files, where the inspect
// command and external tools can read it.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

const filePrefix = "convert-metadata-"

// Tracker collects statistics during a conversion run. It is safe for
// concurrent use.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	stats     EventStats
}

// EventStats holds running statistics about the events of a run.
type EventStats struct {
	Total          int
	Levels         map[string]int
	WithNDC        int
	WithThrowable  int
	WithLocation   int
	WithProperties int
	FirstSequence  int64
	LastSequence   int64
	Oldest         time.Time
	Newest         time.Time
}

// New creates a tracker stamped with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		stats:     EventStats{Levels: make(map[string]int)},
	}
}

// Record updates the running statistics with one written event.
func (t *Tracker) Record(rec xmllayout.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := &t.stats
	seq := rec.SequenceNumber()
	if s.Total == 0 || seq < s.FirstSequence {
		s.FirstSequence = seq
	}
	if s.Total == 0 || seq > s.LastSequence {
		s.LastSequence = seq
	}
	s.Total++
	s.Levels[rec.Level()]++

	if _, ok := rec.NDC(); ok {
		s.WithNDC++
	}
	if len(rec.ThrowableStrRep()) > 0 {
		s.WithThrowable++
	}
	if rec.LocationInformation() != nil {
		s.WithLocation++
	}
	if len(rec.PropertyKeys()) > 0 {
		s.WithProperties++
	}

	ts := time.UnixMilli(rec.TimeStamp()).UTC()
	if s.Oldest.IsZero() || ts.Before(s.Oldest) {
		s.Oldest = ts
	}
	if ts.After(s.Newest) {
		s.Newest = ts
	}
}

// Stats returns a copy of the running statistics.
func (t *Tracker) Stats() EventStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	s.Levels = make(map[string]int, len(t.stats.Levels))
	for k, v := range t.stats.Levels {
		s.Levels[k] = v
	}
	return s
}

// GenerateMetadata creates the metadata record for a finished run under a
// fresh run ID.
func (t *Tracker) GenerateMetadata(toolVersion string, params ConvertParams, incremental bool, previous *RunRef) *ConvertMetadata {
	s := t.Stats()
	completedAt := time.Now()

	return &ConvertMetadata{
		ToolVersion: toolVersion,
		RunID:       uuid.NewString(),
		Parameters:  params,
		Results: ConvertResults{
			TotalEvents:    s.Total,
			Levels:         s.Levels,
			WithNDC:        s.WithNDC,
			WithThrowable:  s.WithThrowable,
			WithLocation:   s.WithLocation,
			WithProperties: s.WithProperties,
			FirstSequence:  s.FirstSequence,
			LastSequence:   s.LastSequence,
			OldestEvent:    s.Oldest,
			NewestEvent:    s.Newest,
			Duration:       completedAt.Sub(t.startTime).String(),
			StartedAt:      t.startTime,
			CompletedAt:    completedAt,
		},
		Incremental: incremental,
		PreviousRun: previous,
	}
}

// SaveMetadata persists metadata to a JSON file in stateDir. The file is
// written to a temporary name and renamed into place. File names embed the
// start time in nanoseconds, so they sort chronologically.
//
// The metadata file will be named: convert-metadata-{nanos}.json
func SaveMetadata(metadata *ConvertMetadata, stateDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	filename := fmt.Sprintf("%s%d.json", filePrefix, metadata.Results.StartedAt.UnixNano())
	path := filepath.Join(stateDir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadLatestMetadata returns the most recent metadata saved for input, or
// nil when there is none.
func LoadLatestMetadata(stateDir, input string) (*ConvertMetadata, error) {
	files, err := filepath.Glob(filepath.Join(stateDir, filePrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	// Newest first; the embedded timestamps have equal width until 2286.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	for _, path := range files {
		metadata, err := readMetadata(path)
		if err != nil {
			return nil, err
		}
		if metadata.Parameters.Input == input {
			return metadata, nil
		}
	}
	return nil, nil
}

func readMetadata(path string) (*ConvertMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata ConvertMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", filepath.Base(path), err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *ConvertMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
