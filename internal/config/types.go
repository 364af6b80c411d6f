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
	"time"

	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

type Config struct {
	Layout  xmllayout.Options `yaml:"layout"`
	Output  OutputConfig      `yaml:"output"`
	Input   InputConfig       `yaml:"input"`
	Kafka   KafkaConfig       `yaml:"kafka"`
	S3      S3Config          `yaml:"s3"`
	Logging LoggingConfig     `yaml:"logging"`
	State   StateConfig       `yaml:"state"`
}

type OutputConfig struct {
	// Document wraps fragments in a log4j:eventSet document.
	Document bool `yaml:"document"`
	// Version is the eventSet version attribute, "1.1" or "1.2".
	Version     string `yaml:"version"`
	Compression string `yaml:"compression"`
}

type InputConfig struct {
	MaxLineBytes int `yaml:"max_line_bytes"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	Topic       string   `yaml:"topic"`
	GroupID     string   `yaml:"group_id"`
	StartAt     string   `yaml:"start_at"`
	MaxMessages int      `yaml:"max_messages"`
	// IdleTimeout ends consumption when the topic stays quiet this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type S3Config struct {
	Region         string `yaml:"region"`
	Bucket         string `yaml:"bucket"`
	Key            string `yaml:"key"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StateConfig struct {
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Layout: xmllayout.Options{
			LocationInfo: false,
		},
		Output: OutputConfig{
			Document:    false,
			Version:     "1.2",
			Compression: "none",
		},
		Input: InputConfig{
			MaxLineBytes: 1 << 20,
		},
		Kafka: KafkaConfig{
			StartAt:     "first",
			IdleTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		State: StateConfig{
			Dir: "~/.eventxml/state",
		},
	}
}
