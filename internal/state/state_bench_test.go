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
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// BenchmarkSaveState benchmarks checkpoint writes
func BenchmarkSaveState(b *testing.B) {
	stateFile := filepath.Join(b.TempDir(), "state.json")
	st := &ConversionState{
		Input:         "/logs/app.ndjson",
		Output:        "/out/app.xml",
		LinesConsumed: 100000,
		EventsWritten: 99800,
		LastSequence:  99800,
		LastTimestamp: time.Now().Add(-time.Minute),
		LastRunID:     "0b7c6f1e-7d7b-4a4a-9c8e-1b0f1f6e8c01",
		LastRunTime:   time.Now(),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := SaveState(st, stateFile); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoadState benchmarks checkpoint reads including validation
func BenchmarkLoadState(b *testing.B) {
	stateFile := filepath.Join(b.TempDir(), "state.json")
	if err := SaveState(&ConversionState{Input: "in", LinesConsumed: 5000}, stateFile); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := LoadState(stateFile); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkConcurrentStateSaves benchmarks concurrent checkpoint writes
func BenchmarkConcurrentStateSaves(b *testing.B) {
	tempDir := b.TempDir()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			stateFile := filepath.Join(tempDir, fmt.Sprintf("state_%d.json", i%10))
			if err := SaveState(&ConversionState{Input: "in", LinesConsumed: int64(i)}, stateFile); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}
