/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Report file writer. Serializes scan records and summaries to JSON,
YAML or HTML. A directory target gets a timestamped, format-specific file name
so repeated runs never overwrite each other.
*/

package reporting

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a report file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat validates a report format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ScanReport holds the outcome of one buffer scan
type ScanReport struct {
	ScanID  string   `json:"scan_id" yaml:"scan_id"`
	Source  string   `json:"source" yaml:"source"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	Summary *Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Records []Record `json:"records" yaml:"records"`
}

// Report is the top level document written to disk
type Report struct {
	Title       string       `json:"title" yaml:"title"`
	Version     string       `json:"version" yaml:"version"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Scans       []ScanReport `json:"scans" yaml:"scans"`
}

// NewReport creates an empty report stamped with the current time
func NewReport(title, version string) *Report {
	return &Report{Title: title, Version: version, GeneratedAt: time.Now()}
}

// ReportFileName generates a file name such as blobscan_2024-06-11_01-30-00.json
func ReportFileName(format Format, t time.Time) string {
	return fmt.Sprintf("blobscan_%s.%s", t.Format("2006-01-02_15-04-05"), format)
}

// Encode writes the report to w in the given format
func Encode(w io.Writer, format Format, report *Report) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		return enc.Close()
	case FormatHTML:
		return renderHTML(w, report)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport writes the report to path and returns the file actually written.
// If path is an existing directory, or ends with a separator, a timestamped
// file name is generated inside it.
func WriteReport(path string, format Format, report *Report) (string, error) {
	target := path
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(path, string(os.PathSeparator)) {
		target = filepath.Join(path, ReportFileName(format, report.GeneratedAt))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, report); err != nil {
		return "", err
	}

	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return target, nil
}
