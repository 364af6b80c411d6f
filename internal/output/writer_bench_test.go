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
	"io"
	"testing"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

// sampleEvent represents a typical application event for benchmarking
func sampleEvent(seq int64) *xmllayout.Event {
	ev := testEvent(seq)
	ev.Message = "request completed: GET /api/v1/orders?status=open returned 200 in 12ms"
	ev.SetNDC("req-7f3a user-42")
	ev.Location = &xmllayout.LocationInfo{
		ClassName:  "github.com/example/shop/internal/api.(*Server)",
		MethodName: "handleOrders",
		FileName:   "server.go",
		LineNumber: "214",
	}
	ev.SetProperty("status", 200)
	ev.SetProperty("route", "/api/v1/orders")
	return ev
}

// BenchmarkWriter_Write benchmarks writing single records
func BenchmarkWriter_Write(b *testing.B) {
	w := NewWriter(io.Discard, xmllayout.New(xmllayout.Options{LocationInfo: true}))
	ev := sampleEvent(1)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := w.Write(ev); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWriter_Concurrent benchmarks concurrent writes
func BenchmarkWriter_Concurrent(b *testing.B) {
	w := NewWriter(io.Discard, xmllayout.New(xmllayout.Options{LocationInfo: true}))
	ev := sampleEvent(1)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := w.Write(ev); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// BenchmarkFileWriter_Compression benchmarks file output per compression format
func BenchmarkFileWriter_Compression(b *testing.B) {
	layout := xmllayout.New(xmllayout.Options{LocationInfo: true})
	ev := sampleEvent(1)

	for _, c := range []codec.Compression{codec.None, codec.Gzip, codec.Zstd, codec.Snappy, codec.LZ4} {
		b.Run(string(c), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				w, err := NewFileWriter(b.TempDir()+"/bench.xml", layout, FileOptions{Compression: c})
				if err != nil {
					b.Fatal(err)
				}
				b.StartTimer()

				for j := 0; j < 1000; j++ {
					if err := w.Write(ev); err != nil {
						b.Fatal(err)
					}
				}

				b.StopTimer()
				if err := w.Close(); err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
			}
		})
	}
}
