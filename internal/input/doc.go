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

// Package input reads log records for conversion.
//
// Records arrive as JSON objects whose fields mirror xmllayout.Event. The
// Reader consumes newline-delimited JSON from a file or stdin, decompressing
// it when the file extension names a supported format. KafkaSource consumes
// the same JSON objects from a Kafka topic, one record per message.
//
// Both sources validate records at the boundary: a record missing logger,
// timestamp, level, thread or message is rejected with
// errors.ErrInvalidRecord, so the encoder only ever sees complete records.
package input
