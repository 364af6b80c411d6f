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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".eventxml.yaml",
			".eventxml.yml",
			filepath.Join(os.Getenv("HOME"), ".eventxml", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".eventxml", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.State.Dir = expandPath(cfg.State.Dir)

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	// Layout
	if locationInfo := os.Getenv("EVENTXML_LOCATION_INFO"); locationInfo != "" {
		cfg.Layout.LocationInfo = parseBool(locationInfo)
	}

	// Output
	if compression := os.Getenv("EVENTXML_COMPRESSION"); compression != "" {
		cfg.Output.Compression = strings.ToLower(strings.TrimSpace(compression))
	}

	// Input
	if maxLine := os.Getenv("EVENTXML_MAX_LINE_BYTES"); maxLine != "" {
		if size, err := parsePositiveInt(maxLine); err == nil {
			cfg.Input.MaxLineBytes = size
		}
	}

	// Kafka
	if brokers := os.Getenv("EVENTXML_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}

	// S3
	if bucket := os.Getenv("EVENTXML_S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if id := os.Getenv("EVENTXML_S3_ACCESS_KEY_ID"); id != "" {
		cfg.S3.AccessKeyID = id
	}
	if secret := os.Getenv("EVENTXML_S3_SECRET_ACCESS_KEY"); secret != "" {
		cfg.S3.SecretAccessKey = secret
	}

	// Logging and state
	if level := os.Getenv("EVENTXML_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if stateDir := os.Getenv("EVENTXML_STATE_DIR"); stateDir != "" {
		cfg.State.Dir = stateDir
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Output.Version != "1.1" && c.Output.Version != "1.2" {
		return fmt.Errorf("output version must be 1.1 or 1.2, got: %q", c.Output.Version)
	}
	if _, err := codec.ParseCompression(c.Output.Compression); err != nil {
		return err
	}
	if c.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input max line bytes must be positive, got: %d", c.Input.MaxLineBytes)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	switch c.Logging.Format {
	case "console", "json", "log4jxml":
	default:
		return fmt.Errorf("log format must be console, json or log4jxml, got: %q", c.Logging.Format)
	}
	if c.Kafka.Topic != "" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka topic %q configured without brokers", c.Kafka.Topic)
	}
	if c.Kafka.StartAt != "first" && c.Kafka.StartAt != "last" {
		return fmt.Errorf("kafka start_at must be first or last, got: %q", c.Kafka.StartAt)
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("s3 access_key_id and secret_access_key must be set together")
	}
	if c.Kafka.IdleTimeout <= 0 {
		return fmt.Errorf("kafka idle_timeout must be positive, got: %s", c.Kafka.IdleTimeout)
	}
	if c.S3.Key != "" && c.S3.Bucket == "" {
		return fmt.Errorf("s3 key %q configured without bucket", c.S3.Key)
	}
	return nil
}
