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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidRecord indicates an input record could not be decoded or is
	// missing a required field.
	// Maps to exit code 2.
	ErrInvalidRecord = errors.New("invalid log record")

	// ErrIncompatibleOptions indicates a combination of flags or config
	// settings that cannot be honored together.
	// Maps to exit code 2.
	ErrIncompatibleOptions = errors.New("incompatible options")

	// ErrNoState indicates an incremental conversion was requested but no
	// checkpoint exists for the input.
	// Maps to exit code 2.
	ErrNoState = errors.New("no conversion state found")

	// ErrSinkWrite indicates the output sink rejected a write.
	// Maps to exit code 3.
	ErrSinkWrite = errors.New("output write failed")

	// ErrUpload indicates the finished output could not be uploaded.
	// Maps to exit code 3.
	ErrUpload = errors.New("output upload failed")
)
