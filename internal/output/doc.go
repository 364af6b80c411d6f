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

// Package output writes log4j:event fragments to a file or io.Writer.
//
// The primary type is Writer, which serializes fragments onto a shared sink
// so that concurrent callers never interleave partial events. A Writer can
// optionally frame its fragments as a complete log4j:eventSet document and
// compress the stream. Finished files can be uploaded to S3 with UploadFile.
//
// Example usage:
//
//	layout := xmllayout.New(xmllayout.Options{LocationInfo: true})
//	w, err := output.NewFileWriter("events.xml.gz", layout, output.FileOptions{
//	    Compression: codec.Gzip,
//	    Document:    true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for _, ev := range events {
//	    if err := w.Write(ev); err != nil {
//	        log.Printf("Failed to write event: %v", err)
//	    }
//	}
//
//	fmt.Printf("Wrote %d events\n", w.Count())
package output
