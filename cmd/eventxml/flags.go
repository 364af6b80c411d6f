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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-eventxml/internal/config"
	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
)

func bindGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file path (default: .eventxml.yaml or ~/.eventxml/config.yaml)")
	fs.String("state-dir", "", "Directory for checkpoints and run metadata")
	fs.String("log-level", "", "Diagnostic log level: debug, info, warn, error")
	fs.String("log-format", "", "Diagnostic log format: console, json, log4jxml")
	fs.BoolP("verbose", "v", false, "Shorthand for --log-level=debug")
}

// loadConfig loads the configuration file, applies environment overrides
// and then every flag the user actually set, so unset flags never mask
// config values.
func loadConfig(cmd *cobra.Command, apply ...func(*pflag.FlagSet, *config.Config) error) (*config.Config, error) {
	fs := cmd.Flags()

	path, _ := fs.GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if fs.Changed("state-dir") {
		cfg.State.Dir, _ = fs.GetString("state-dir")
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level, _ = fs.GetString("log-level")
	}
	if verbose, _ := fs.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format, _ = fs.GetString("log-format")
	}

	for _, fn := range apply {
		if err := fn(fs, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration: %v", xmlerrors.ErrIncompatibleOptions, err)
	}
	return cfg, nil
}
