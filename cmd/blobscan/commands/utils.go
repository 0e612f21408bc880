/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for blobscan commands. Provides configuration
loading, logging setup, scan configuration resolution, and the common
scan-then-report flow used by every scanning command.
*/

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/blobscan/pkg/core"
	"github.com/kleascm/blobscan/pkg/logging"
	"github.com/kleascm/blobscan/pkg/reporting"
	"github.com/kleascm/blobscan/pkg/scan"
	"github.com/kleascm/blobscan/pkg/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Version is the blobscan release version
const Version = "1.0.0"

// endianAuto selects the byte order from the moc3 header of each buffer
const endianAuto = "auto"

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("BLOBSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the logger from the resolved configuration
func SetupLogging(console io.Writer) (*logging.Logger, error) {
	cfg := &logging.LoggerConfig{
		Level:     logging.LogLevel(strings.ToLower(viper.GetString("log.level"))),
		Format:    logging.LogFormat(strings.ToLower(viper.GetString("log.format"))),
		OutputDir: viper.GetString("log.output_dir"),
		MaxFiles:  viper.GetInt("log.max_files"),
		Timestamp: viper.GetBool("log.timestamp"),
		Caller:    viper.GetBool("log.caller"),
		Colors:    !viper.GetBool("log.no_color"),
	}
	return logging.NewLogger(cfg, console)
}

// ScanConfig resolves the scan configuration.
// auto is true when the byte order must be taken from each buffer's header.
func ScanConfig() (cfg *core.Config, auto bool, err error) {
	cfg = core.DefaultConfig()
	cfg.StartOffset = viper.GetUint64("scan.start_offset")
	cfg.ReportOffset = viper.GetUint64("scan.report_offset")
	cfg.ReportTrailingVoid = viper.GetBool("scan.report_trailing")

	endian := strings.ToLower(viper.GetString("scan.endian"))
	if endian == endianAuto {
		return cfg, true, nil
	}

	cfg.Endian, err = scan.ParseEndian(endian)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, cfg.Validate()
}

// bufferFromModel turns a loaded model into a scan buffer, honoring auto endianness
func bufferFromModel(model *source.Model, auto bool, logger *logrus.Logger) core.Buffer {
	buf := core.Buffer{Name: model.Name, Data: model.Moc}
	if !auto {
		return buf
	}
	if model.Header == nil {
		logger.WithField("source", model.Name).Warn("No moc3 header, assuming little endian")
		buf.Endian = scan.EndianLittle
		return buf
	}
	buf.Endian = model.Header.Endian()
	logger.WithFields(logrus.Fields{
		"source":  model.Name,
		"version": model.Header.VersionName(),
		"endian":  buf.Endian,
	}).Debug("Byte order taken from moc3 header")
	return buf
}

// scanSession holds everything a scanning command needs
type scanSession struct {
	logger *logging.Logger
	config *core.Config
	auto   bool
	memory *reporting.MemorySink
	engine *core.Engine
}

// newScanSession loads configuration, logging and the engine
func newScanSession(console io.Writer) (*scanSession, error) {
	if err := LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(console)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	cfg, auto, err := ScanConfig()
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("invalid scan configuration: %w", err)
	}

	log := logger.GetLogger()
	if !cfg.Aligned() {
		log.WithField("start_at", cfg.StartOffset).Warn("Start offset is not word aligned")
	}

	var sink reporting.Sink = reporting.NewLogSink(log)
	s := &scanSession{logger: logger, config: cfg, auto: auto}

	if viper.GetString("report.path") != "" {
		level := logrus.DebugLevel
		if log.IsLevelEnabled(logrus.TraceLevel) {
			level = logrus.TraceLevel
		}
		s.memory = reporting.NewMemorySink(level)
		sink = reporting.MultiSink{sink, s.memory}
	}

	s.engine, err = core.NewEngine(cfg, sink, log)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return s, nil
}

// run scans the buffers and writes the report if one was requested
func (s *scanSession) run(ctx context.Context, bufs []core.Buffer) (*core.BatchResult, error) {
	batch, err := s.engine.ScanBatch(ctx, bufs)
	if batch != nil && s.memory != nil {
		if werr := s.writeReport(batch); werr != nil {
			return batch, werr
		}
	}
	return batch, err
}

// writeReport groups collected records by scan and writes the report file
func (s *scanSession) writeReport(batch *core.BatchResult) error {
	format, err := reporting.ParseFormat(viper.GetString("report.format"))
	if err != nil {
		return err
	}

	byScan := make(map[string][]reporting.Record)
	for _, rec := range s.memory.Records() {
		byScan[rec.ScanID] = append(byScan[rec.ScanID], rec)
	}

	report := reporting.NewReport("blobscan report", Version)
	for _, result := range batch.Results {
		scanReport := reporting.ScanReport{
			ScanID:  result.ScanID,
			Source:  result.Source,
			Summary: result.Summary,
			Records: byScan[result.ScanID],
		}
		if result.Err != nil {
			scanReport.Error = result.Err.Error()
		}
		report.Scans = append(report.Scans, scanReport)
	}

	path, err := reporting.WriteReport(viper.GetString("report.path"), format, report)
	if err != nil {
		return err
	}
	s.logger.GetLogger().WithField("path", path).Info("Report written")
	return nil
}

// close releases the logger
func (s *scanSession) close() {
	s.logger.Close()
}

// batchError fails the command only when no buffer could be scanned
func batchError(batch *core.BatchResult) error {
	if batch == nil || batch.Failed() < len(batch.Results) {
		return nil
	}
	return fmt.Errorf("every buffer failed: %w", batch.Err())
}
