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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sirseerhq/sirseer-eventxml/internal/codec"
	"github.com/sirseerhq/sirseer-eventxml/internal/config"
	xmlerrors "github.com/sirseerhq/sirseer-eventxml/internal/errors"
	"github.com/sirseerhq/sirseer-eventxml/internal/input"
	"github.com/sirseerhq/sirseer-eventxml/internal/logging"
	"github.com/sirseerhq/sirseer-eventxml/internal/metadata"
	"github.com/sirseerhq/sirseer-eventxml/internal/output"
	"github.com/sirseerhq/sirseer-eventxml/internal/state"
	"github.com/sirseerhq/sirseer-eventxml/pkg/xmllayout"
)

const kafkaScheme = "kafka://"

// Overridden in tests.
var (
	newKafkaSource = func(opts input.KafkaOptions) (input.Source, error) {
		src, err := input.NewKafkaSource(opts)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	newObjectPutter = func(ctx context.Context, opts output.S3Options) (output.ObjectPutter, error) {
		client, err := output.NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

// convertPlan is the resolved set of decisions for one convert run.
type convertPlan struct {
	// inputArg is the path to open, or "-" for stdin. Empty for Kafka.
	inputArg string
	// inputKey identifies the input in checkpoints and metadata.
	inputKey     string
	kafka        bool
	output       string
	compression  codec.Compression
	incremental  bool
	saveMetadata bool
	s3Key        string
}

// newConvertCommand creates the convert command
func newConvertCommand() *cobra.Command {
	var (
		outputFile   string
		incremental  bool
		saveMetadata bool
	)

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert NDJSON log records into log4j XML events",
		Long: `Convert newline-delimited JSON log records into log4j XMLLayout events.

Each input line is one record with the fields logger, timestamp, level,
thread and message, and optionally sequenceNumber, ndc, throwable,
locationInfo and properties.

Input is read from the named file, from stdin when the argument is "-" or
omitted, or from a Kafka topic when --kafka-topic is set. Files ending in
.gz, .zst, .sz, .br or .lz4 are decompressed.

Examples:
  eventxml convert app.ndjson -o app.xml
  eventxml convert app.ndjson -o app.xml.gz --document --location-info
  eventxml convert app.ndjson -o app.xml --incremental
  eventxml convert --kafka-brokers localhost:9092 --kafka-topic logs -o logs.xml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, applyConvertFlags)
			if err != nil {
				return err
			}

			plan, err := planConvert(cmd.Flags(), cfg, args, outputFile, incremental, saveMetadata)
			if err != nil {
				return err
			}

			logger, err := logging.NewWithSink(cfg.Logging, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runConvert(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg, plan, logger)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "Resume from the last checkpoint and append to the output file")
	cmd.Flags().BoolVar(&saveMetadata, "save-metadata", false, "Save run metadata to the state directory")

	// Layout and framing
	cmd.Flags().Bool("location-info", false, "Emit log4j:locationInfo for every event")
	cmd.Flags().Bool("document", false, "Wrap events in a log4j:eventSet document")
	cmd.Flags().String("event-set-version", "", "eventSet version attribute: 1.1 or 1.2")
	cmd.Flags().String("compress", "", "Output compression: none, gzip, zstd, snappy, brotli, lz4 (default: from output extension)")
	cmd.Flags().Int("max-line-bytes", 0, "Maximum length of an input line")

	// Kafka
	cmd.Flags().StringSlice("kafka-brokers", nil, "Kafka broker addresses")
	cmd.Flags().String("kafka-topic", "", "Read records from this Kafka topic")
	cmd.Flags().String("kafka-group", "", "Kafka consumer group; offsets are committed after a successful run")
	cmd.Flags().String("kafka-start", "", "Where to start without committed offsets: first or last")
	cmd.Flags().Int("max-messages", 0, "Stop after this many Kafka messages (0: until idle)")
	cmd.Flags().Duration("kafka-idle-timeout", 0, "Stop when the topic stays idle this long")

	// S3
	cmd.Flags().String("s3-bucket", "", "Upload the finished output file to this bucket")
	cmd.Flags().String("s3-key", "", "Object key for the upload (default: output file name)")
	cmd.Flags().String("s3-region", "", "AWS region for the upload")
	cmd.Flags().String("s3-endpoint", "", "Custom S3 endpoint")
	cmd.Flags().Bool("s3-path-style", false, "Use path-style S3 addressing")

	return cmd
}

// applyConvertFlags copies every convert flag the user set onto cfg.
func applyConvertFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	get := func(name string, fn func() error) {
		if err == nil && fs.Lookup(name) != nil && fs.Changed(name) {
			err = fn()
		}
	}

	get("location-info", func() (e error) { cfg.Layout.LocationInfo, e = fs.GetBool("location-info"); return })
	get("document", func() (e error) { cfg.Output.Document, e = fs.GetBool("document"); return })
	get("event-set-version", func() (e error) { cfg.Output.Version, e = fs.GetString("event-set-version"); return })
	get("compress", func() (e error) {
		v, e := fs.GetString("compress")
		cfg.Output.Compression = strings.ToLower(strings.TrimSpace(v))
		return e
	})
	get("max-line-bytes", func() (e error) { cfg.Input.MaxLineBytes, e = fs.GetInt("max-line-bytes"); return })

	get("kafka-brokers", func() (e error) { cfg.Kafka.Brokers, e = fs.GetStringSlice("kafka-brokers"); return })
	get("kafka-topic", func() (e error) { cfg.Kafka.Topic, e = fs.GetString("kafka-topic"); return })
	get("kafka-group", func() (e error) { cfg.Kafka.GroupID, e = fs.GetString("kafka-group"); return })
	get("kafka-start", func() (e error) { cfg.Kafka.StartAt, e = fs.GetString("kafka-start"); return })
	get("max-messages", func() (e error) { cfg.Kafka.MaxMessages, e = fs.GetInt("max-messages"); return })
	get("kafka-idle-timeout", func() (e error) { cfg.Kafka.IdleTimeout, e = fs.GetDuration("kafka-idle-timeout"); return })

	get("s3-bucket", func() (e error) { cfg.S3.Bucket, e = fs.GetString("s3-bucket"); return })
	get("s3-key", func() (e error) { cfg.S3.Key, e = fs.GetString("s3-key"); return })
	get("s3-region", func() (e error) { cfg.S3.Region, e = fs.GetString("s3-region"); return })
	get("s3-endpoint", func() (e error) { cfg.S3.Endpoint, e = fs.GetString("s3-endpoint"); return })
	get("s3-path-style", func() (e error) { cfg.S3.ForcePathStyle, e = fs.GetBool("s3-path-style"); return })

	return err
}

// planConvert resolves the input, output and compression for a run and
// rejects option combinations that cannot work together.
func planConvert(fs *pflag.FlagSet, cfg *config.Config, args []string, outputFile string, incremental, saveMetadata bool) (convertPlan, error) {
	plan := convertPlan{
		incremental:  incremental,
		saveMetadata: saveMetadata,
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch {
	case fs.Changed("kafka-topic") && arg != "":
		return plan, fmt.Errorf("%w: cannot read both %s and a Kafka topic", xmlerrors.ErrIncompatibleOptions, arg)
	case fs.Changed("kafka-topic") || (arg == "" && cfg.Kafka.Topic != ""):
		plan.kafka = true
		plan.inputKey = kafkaScheme + cfg.Kafka.Topic
	case arg == "" || arg == input.Stdin:
		plan.inputArg = input.Stdin
		plan.inputKey = input.Stdin
	default:
		plan.inputArg = arg
		plan.inputKey = inputKey(arg)
	}

	if outputFile != "" {
		abs, err := filepath.Abs(outputFile)
		if err != nil {
			return plan, fmt.Errorf("failed to resolve output path: %w", err)
		}
		plan.output = abs
	}

	c, err := codec.ParseCompression(cfg.Output.Compression)
	if err != nil {
		return plan, fmt.Errorf("%w: %v", xmlerrors.ErrIncompatibleOptions, err)
	}
	if c == codec.None && !fs.Changed("compress") && plan.output != "" {
		c = codec.FromPath(plan.output)
	}
	plan.compression = c

	if incremental {
		switch {
		case cfg.Output.Document:
			return plan, fmt.Errorf("%w: --incremental cannot append to an eventSet document", xmlerrors.ErrIncompatibleOptions)
		case plan.kafka:
			return plan, fmt.Errorf("%w: --incremental is not supported for Kafka input; use --kafka-group", xmlerrors.ErrIncompatibleOptions)
		case plan.inputArg == input.Stdin:
			return plan, fmt.Errorf("%w: --incremental requires an input file", xmlerrors.ErrIncompatibleOptions)
		case plan.output == "":
			return plan, fmt.Errorf("%w: --incremental requires --output", xmlerrors.ErrIncompatibleOptions)
		case !c.Concatenable():
			return plan, fmt.Errorf("%w: %s output cannot be appended to", xmlerrors.ErrIncompatibleOptions, c)
		}
	}

	if cfg.S3.Bucket != "" {
		if plan.output == "" {
			return plan, fmt.Errorf("%w: uploading to s3 requires --output", xmlerrors.ErrIncompatibleOptions)
		}
		plan.s3Key = cfg.S3.Key
		if plan.s3Key == "" {
			plan.s3Key = filepath.Base(plan.output)
		}
	}

	return plan, nil
}

// inputKey returns the stable identifier of an input: stdin and Kafka
// inputs keep their names, files are made absolute.
func inputKey(arg string) string {
	if arg == input.Stdin || strings.HasPrefix(arg, kafkaScheme) {
		return arg
	}
	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}
	return arg
}

// runConvert executes the convert command
func runConvert(ctx context.Context, stdin io.Reader, stdout io.Writer, cfg *config.Config, plan convertPlan, logger *zap.Logger) error {
	layout := xmllayout.New(cfg.Layout)
	layout.ActivateOptions()

	stateFile := state.GetStateFilePath(cfg.State.Dir, plan.inputKey)
	var (
		checkpoint *state.ConversionState
		previous   *metadata.RunRef
	)
	if plan.incremental {
		st, err := state.LoadState(stateFile)
		switch {
		case err == nil:
			if st.Output != plan.output {
				return fmt.Errorf("%w: checkpoint for %s was written to %s, not %s",
					xmlerrors.ErrIncompatibleOptions, plan.inputKey, st.Output, plan.output)
			}
			checkpoint = st
			previous = &metadata.RunRef{RunID: st.LastRunID, CompletedAt: st.LastRunTime}
			logger.Info("resuming from checkpoint",
				zap.String("input", plan.inputKey),
				zap.Int64("lines_consumed", st.LinesConsumed),
				zap.Int64("events_written", st.EventsWritten))
		case errors.Is(err, xmlerrors.ErrNoState):
			logger.Info("no checkpoint found, converting from the start", zap.String("input", plan.inputKey))
		default:
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
	}

	src, reader, err := openSource(stdin, cfg, plan)
	if err != nil {
		return err
	}
	defer src.Close()

	if checkpoint != nil {
		if err := reader.Skip(checkpoint.LinesConsumed); err != nil {
			return fmt.Errorf("%w: input no longer matches its checkpoint: %v", xmlerrors.ErrIncompatibleOptions, err)
		}
	}

	opts := output.FileOptions{
		Compression: plan.compression,
		Document:    cfg.Output.Document,
		Version:     cfg.Output.Version,
		Append:      checkpoint != nil,
	}
	writer, err := openWriter(stdout, layout, plan.output, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", xmlerrors.ErrSinkWrite, err)
	}
	defer writer.Close()

	tracker := metadata.New()
	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if layout.LocationInfo() && ev.Location == nil {
			ev.Location = xmllayout.UnknownLocation()
		}
		if err := writer.Write(ev); err != nil {
			return err
		}
		tracker.Record(ev)
		logger.Debug("event written", zap.String("logger", ev.Logger), zap.Int64("sequence", ev.Sequence))
	}

	if err := writer.Close(); err != nil {
		return err
	}
	if err := src.Ack(ctx); err != nil {
		return fmt.Errorf("failed to commit consumed records: %w", err)
	}

	md := tracker.GenerateMetadata(version, metadata.ConvertParams{
		Input:        plan.inputKey,
		Source:       sourceKind(plan),
		Output:       outputName(plan),
		LocationInfo: layout.LocationInfo(),
		Document:     cfg.Output.Document,
		Version:      documentVersion(cfg),
		Compression:  string(plan.compression),
		Upload:       uploadURL(cfg, plan),
	}, plan.incremental, previous)

	logger.Info("conversion complete",
		zap.String("input", plan.inputKey),
		zap.String("output", md.Parameters.Output),
		zap.Int("events", md.Results.TotalEvents),
		zap.String("duration", md.Results.Duration))

	if plan.incremental {
		if err := saveCheckpoint(stateFile, checkpoint, reader, md, plan); err != nil {
			return err
		}
	}

	if cfg.S3.Bucket != "" {
		putter, err := newObjectPutter(ctx, output.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", xmlerrors.ErrUpload, err)
		}
		if err := output.UploadFile(ctx, putter, cfg.S3.Bucket, plan.s3Key, plan.output, plan.compression); err != nil {
			return err
		}
		logger.Info("output uploaded", zap.String("url", md.Parameters.Upload))
	}

	if plan.saveMetadata {
		if err := metadata.SaveMetadata(md, cfg.State.Dir); err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
	}

	return nil
}

// openSource opens the record source for plan. The returned reader is nil
// for Kafka input.
func openSource(stdin io.Reader, cfg *config.Config, plan convertPlan) (input.Source, *input.Reader, error) {
	if plan.kafka {
		src, err := newKafkaSource(input.KafkaOptions{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			GroupID:     cfg.Kafka.GroupID,
			StartAt:     cfg.Kafka.StartAt,
			MaxMessages: cfg.Kafka.MaxMessages,
			IdleTimeout: cfg.Kafka.IdleTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open kafka source: %w", err)
		}
		return src, nil, nil
	}

	if plan.inputArg == input.Stdin {
		r := input.NewReader(stdin, "stdin", cfg.Input.MaxLineBytes)
		return r, r, nil
	}

	r, err := input.OpenFile(plan.inputArg, cfg.Input.MaxLineBytes)
	if err != nil {
		return nil, nil, err
	}
	return r, r, nil
}

// openWriter writes to path, or to stdout when path is empty.
func openWriter(stdout io.Writer, layout *xmllayout.Layout, path string, opts output.FileOptions) (output.OutputWriter, error) {
	if path == "" {
		return output.NewStreamWriter(stdout, layout, opts)
	}
	return output.NewFileWriter(path, layout, opts)
}

func saveCheckpoint(stateFile string, previous *state.ConversionState, reader *input.Reader, md *metadata.ConvertMetadata, plan convertPlan) error {
	st := &state.ConversionState{
		Input:         plan.inputKey,
		Output:        plan.output,
		LinesConsumed: reader.Line(),
		EventsWritten: int64(md.Results.TotalEvents),
		LastRunID:     md.RunID,
		LastRunTime:   md.Results.CompletedAt,
	}
	if previous != nil {
		st.EventsWritten += previous.EventsWritten
		st.LastSequence = previous.LastSequence
		st.LastTimestamp = previous.LastTimestamp
	}
	if md.Results.TotalEvents > 0 {
		st.LastSequence = md.Results.LastSequence
		st.LastTimestamp = md.Results.NewestEvent
	}

	if err := state.SaveState(st, stateFile); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func sourceKind(plan convertPlan) string {
	switch {
	case plan.kafka:
		return "kafka"
	case plan.inputArg == input.Stdin:
		return "stdin"
	default:
		return "file"
	}
}

func outputName(plan convertPlan) string {
	if plan.output == "" {
		return "stdout"
	}
	return plan.output
}

func documentVersion(cfg *config.Config) string {
	if !cfg.Output.Document {
		return ""
	}
	return cfg.Output.Version
}

func uploadURL(cfg *config.Config, plan convertPlan) string {
	if cfg.S3.Bucket == "" {
		return ""
	}
	return fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, plan.s3Key)
}
