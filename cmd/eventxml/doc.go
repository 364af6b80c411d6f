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

// Package main implements the eventxml command-line interface.
// This tool converts structured log records into log4j XMLLayout events
// that log4j viewers such as Chainsaw can load.
//
// The CLI supports:
//   - Converting NDJSON records from a file, stdin, or a Kafka topic
//   - Optional location information and eventSet document framing
//   - gzip, zstd, snappy, brotli and lz4 output compression
//   - Incremental conversion that appends only new input lines
//   - Uploading the finished file to S3
//   - Inspecting the metadata of previous runs
//
// Usage:
//
//	eventxml convert [input] [flags]
//	eventxml inspect <input> [flags]
//
// Example:
//
//	eventxml convert app.ndjson --document --location-info -o app.xml
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Invalid input record or incompatible options
//   - 3: Output write or upload failure
package main
