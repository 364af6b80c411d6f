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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/internal/metadata"
	"github.com/sirseerhq/sirseer-eventxml/internal/state"
)

// newInspectCommand creates the inspect command
func newInspectCommand() *cobra.Command {
	var showCheckpoint bool

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Show the latest conversion run for an input",
		Long: `Show the metadata of the most recent conversion run for an input.

The input is named as it was passed to convert: a file path, "-" for stdin,
or kafka://<topic>. Runs are only recorded when convert is called with
--save-metadata. With --checkpoint the incremental checkpoint is printed
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			key := inputKey(args[0])
			if showCheckpoint {
				return printCheckpoint(cmd.OutOrStdout(), cfg.State.Dir, key)
			}
			return printMetadata(cmd.OutOrStdout(), cfg.State.Dir, key)
		},
	}

	cmd.Flags().BoolVar(&showCheckpoint, "checkpoint", false, "Print the incremental checkpoint instead of run metadata")

	return cmd
}

func printMetadata(w io.Writer, stateDir, key string) error {
	md, err := metadata.LoadLatestMetadata(stateDir, key)
	if err != nil {
		return err
	}
	if md == nil {
		return fmt.Errorf("%w: no run metadata for %s in %s", xmlerrors.ErrNoState, key, stateDir)
	}
	return metadata.WriteMetadataToWriter(md, w)
}

func printCheckpoint(w io.Writer, stateDir, key string) error {
	st, err := state.LoadState(state.GetStateFilePath(stateDir, key))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(st)
}
