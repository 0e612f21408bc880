/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the scan engine. Defines the scan configuration, the
buffers handed to the engine, and the per-buffer and batch results.
*/

package core

import (
	"errors"
	"fmt"

	"github.com/kleascm/blobscan/pkg/reporting"
	"github.com/kleascm/blobscan/pkg/scan"
)

// ErrEmptyBatch is returned when a batch scan is given no buffers
var ErrEmptyBatch = errors.New("no buffers to scan")

// Config holds the scan parameters shared by every buffer of a run
type Config struct {
	Endian             scan.Endian `json:"endian" mapstructure:"endian"`
	StartOffset        uint64      `json:"start_offset" mapstructure:"start_offset"`   // word-aligned byte offset to begin scanning
	ReportOffset       uint64      `json:"report_offset" mapstructure:"report_offset"` // subtracted from displayed end offsets
	ReportTrailingVoid bool        `json:"report_trailing_void" mapstructure:"report_trailing_void"`
}

// DefaultConfig returns a little-endian scan from offset zero
func DefaultConfig() *Config {
	return &Config{Endian: scan.EndianLittle}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := scan.ParseEndian(string(c.Endian)); err != nil {
		return err
	}
	return nil
}

// Aligned reports whether the start offset falls on a word boundary
func (c *Config) Aligned() bool {
	return c.StartOffset%scan.WordSize == 0
}

// Buffer is one byte stream to scan
type Buffer struct {
	Name string
	Data []byte
	// Endian overrides Config.Endian for this buffer when set
	Endian scan.Endian
}

// ScanResult is the outcome of scanning a single buffer
type ScanResult struct {
	ScanID  string
	Source  string
	Summary *reporting.Summary
	Err     error
}

// Failed reports whether the scan ended in an error
func (r *ScanResult) Failed() bool {
	return r.Err != nil
}

// BatchResult collects the results of a batch scan in input order
type BatchResult struct {
	Results []*ScanResult
}

// Failed returns the number of buffers that could not be scanned
func (b *BatchResult) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Err summarizes the failures of a batch, or returns nil when all buffers succeeded
func (b *BatchResult) Err() error {
	var errs []error
	for _, r := range b.Results {
		if r.Failed() {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}
	return errors.Join(errs...)
}
