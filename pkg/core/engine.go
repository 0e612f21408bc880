/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Scan engine. Wires word reader, run segmenter, type inference and
reporter into a single sequential pass over a buffer, and runs batches of
buffers one after another, recording per-buffer failures without stopping.
*/

package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kleascm/blobscan/pkg/inference"
	"github.com/kleascm/blobscan/pkg/reporting"
	"github.com/kleascm/blobscan/pkg/scan"
	"github.com/sirupsen/logrus"
)

// Engine scans buffers and reports their runs
type Engine struct {
	config *Config
	sink   reporting.Sink
	logger *logrus.Logger
}

// NewEngine creates a scan engine writing records to sink.
// A nil logger discards engine progress messages.
func NewEngine(config *Config, sink reporting.Sink, logger *logrus.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan config: %w", err)
	}
	if sink == nil {
		return nil, fmt.Errorf("sink not set")
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Engine{config: config, sink: sink, logger: logger}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() *Config {
	return e.config
}

// Scan runs the full pipeline over one buffer.
// The only failure is a start offset beyond the buffer, detected before any word is read.
func (e *Engine) Scan(buf Buffer) (*ScanResult, error) {
	result := &ScanResult{ScanID: uuid.New().String(), Source: buf.Name}

	endian := e.config.Endian
	if buf.Endian != "" {
		override, err := scan.ParseEndian(string(buf.Endian))
		if err != nil {
			result.Err = fmt.Errorf("buffer %s: %w", buf.Name, err)
			return result, result.Err
		}
		endian = override
	}

	reader, err := scan.NewWordReader(buf.Data, e.config.StartOffset)
	if err != nil {
		result.Err = err
		return result, err
	}

	e.logger.WithFields(logrus.Fields{
		"source":  buf.Name,
		"scan_id": result.ScanID,
		"bytes":   len(buf.Data),
		"start":   e.config.StartOffset,
		"words":   reader.Remaining(),
		"endian":  endian,
	}).Debug("Scanning buffer")

	reporter := reporting.NewReporter(e.sink, e.config.ReportOffset).WithScan(result.ScanID, buf.Name)
	infer := inference.NewBinaryInferenceEngine(endian)

	var runStart uint64
	if reporter.TraceEnabled() {
		infer.SetObserver(func(d inference.Decoded) {
			reporter.ReportWord(runStart+uint64(d.Index)*scan.WordSize, d, endian)
		})
	}

	summary := reporting.NewSummary()
	segmenter := scan.NewSegmenter(func(run scan.Run) {
		summary.Words += run.WordCount

		switch run.Kind {
		case scan.RunData:
			runStart = run.Start
			res := infer.Infer(run.Words)
			summary.DataRuns++
			summary.DataBytes += run.Size()
			summary.TypeCounts[res.AssumedType.String()]++
			reporter.ReportData(run, res)

		case scan.RunZero:
			switch {
			case run.Reported:
				summary.VoidRuns++
				summary.VoidBytes += run.Size()
				reporter.ReportVoid(run)
			case !run.Trailing:
				summary.ShortGaps++
			}
		}
	})
	segmenter.SetReportTrailingVoid(e.config.ReportTrailingVoid)
	segmenter.Run(reader)

	reporter.ReportSummary(summary)
	result.Summary = summary
	return result, nil
}

// ScanBatch scans buffers in order. A buffer that fails is recorded in the
// result and the batch moves on. The context is checked between buffers.
func (e *Engine) ScanBatch(ctx context.Context, bufs []Buffer) (*BatchResult, error) {
	if len(bufs) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := &BatchResult{Results: make([]*ScanResult, 0, len(bufs))}
	for i, buf := range bufs {
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("batch interrupted after %d of %d buffers: %w", i, len(bufs), err)
		}

		result, err := e.Scan(buf)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"source": buf.Name,
				"error":  err,
			}).Error("Failed to scan buffer")
		}
		batch.Results = append(batch.Results, result)
	}

	e.logger.WithFields(logrus.Fields{
		"buffers": len(bufs),
		"failed":  batch.Failed(),
	}).Info("Batch scan complete")

	return batch, nil
}
