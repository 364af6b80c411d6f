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

// Package state provides atomic state persistence for incremental conversion.
//
// An incremental conversion appends the fragments for new input lines to an
// existing output file. The checkpoint records how many input lines were
// consumed and what was written, so a later run can skip straight to the
// unconverted tail. Every write is atomic, using a write-to-temp-and-rename
// pattern, and every read is validated with a SHA256 checksum and a schema
// version.
//
// Example usage:
//
//	path := state.GetStateFilePath(cfg.State.Dir, "app.ndjson")
//	st, err := state.LoadState(path)
//	if errors.Is(err, xmlerrors.ErrNoState) {
//	    st = &state.ConversionState{Input: "app.ndjson"}
//	}
//	...
//	st.LinesConsumed = reader.Line()
//	err = state.SaveState(st, path)
package state
