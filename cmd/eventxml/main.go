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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/internal/sinkerror"
)

var version = "dev"

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eventxml",
		Short: "Convert structured log records into log4j XML events",
		Long: `eventxml renders structured log records as log4j XMLLayout events.
Records are read as newline-delimited JSON from files, stdin, or a Kafka
topic and written as log4j:event fragments or complete eventSet documents.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	bindGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInspectCommand())
	return rootCmd
}

// reportError prints err and, for sink failures, a short explanation.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, xmlerrors.ErrSinkWrite) {
		if hint := sinkerror.Describe(sinkerror.NewInspector(), err); hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", hint)
		}
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, xmlerrors.ErrInvalidRecord) ||
		errors.Is(err, xmlerrors.ErrIncompatibleOptions) ||
		errors.Is(err, xmlerrors.ErrNoState) {
		return 2 // Bad input or options
	}

	if errors.Is(err, xmlerrors.ErrSinkWrite) ||
		errors.Is(err, xmlerrors.ErrUpload) {
		return 3 // Output failures
	}

	return 1 // General error
}
