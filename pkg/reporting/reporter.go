/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Run reporter for the blob scanner. Turns completed runs, per-word
decodes and scan summaries into structured records and hands them to a Sink.
The reporter only formats; where records end up is the sink's concern.
*/

package reporting

import (
	"fmt"

	"github.com/kleascm/blobscan/pkg/inference"
	"github.com/kleascm/blobscan/pkg/scan"
	"github.com/sirupsen/logrus"
)

// Record tags
const (
	TagData    = "DATA"
	TagVoid    = "VOID"
	TagWord    = "WORD"
	TagSummary = "SUMMARY"
)

// WordDecode is the trace payload for a single word
type WordDecode struct {
	Signed   int64           `json:"signed" yaml:"signed"`
	Unsigned int64           `json:"unsigned" yaml:"unsigned"`
	Float    inference.Float `json:"float" yaml:"float"`
	Endian   string          `json:"endian" yaml:"endian"`
}

// Summary aggregates the outcome of scanning one buffer
type Summary struct {
	Words      uint64         `json:"words" yaml:"words"`
	DataRuns   int            `json:"data_runs" yaml:"data_runs"`
	VoidRuns   int            `json:"void_runs" yaml:"void_runs"`
	ShortGaps  int            `json:"short_gaps" yaml:"short_gaps"`
	DataBytes  uint64         `json:"data_bytes" yaml:"data_bytes"`
	VoidBytes  uint64         `json:"void_bytes" yaml:"void_bytes"`
	TypeCounts map[string]int `json:"type_counts" yaml:"type_counts"`
}

// NewSummary creates an empty summary
func NewSummary() *Summary {
	return &Summary{TypeCounts: make(map[string]int)}
}

// Record is one structured report entry
type Record struct {
	ScanID    string            `json:"scan_id" yaml:"scan_id"`
	Source    string            `json:"source" yaml:"source"`
	Tag       string            `json:"tag" yaml:"tag"`
	Level     logrus.Level      `json:"level" yaml:"level"`
	Start     uint64            `json:"start" yaml:"start"`
	End       uint64            `json:"end" yaml:"end"`
	Size      uint64            `json:"size" yaml:"size"`
	Inference *inference.Result `json:"inference,omitempty" yaml:"inference,omitempty"`
	Word      *WordDecode       `json:"word,omitempty" yaml:"word,omitempty"`
	Summary   *Summary          `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Message renders the record as a single human readable line
func (r Record) Message() string {
	switch r.Tag {
	case TagData:
		inf := r.Inference
		if inf == nil {
			inf = &inference.Result{}
		}
		return fmt.Sprintf("DATA %#010x %#010x size=%d probably=%s min=%d max=%d maybe_float=%t maybe_string=%t",
			r.Start, r.End, r.Size, inf.AssumedType, inf.Min, inf.Max, inf.FloatPlausible, inf.StringPlausible)
	case TagVoid:
		return fmt.Sprintf("VOID %#010x %#010x size=%d", r.Start, r.End, r.Size)
	case TagWord:
		if r.Word == nil {
			return fmt.Sprintf("WORD %#010x", r.Start)
		}
		return fmt.Sprintf("WORD %#010x signed=%d unsigned=%d float=%g endian=%s",
			r.Start, r.Word.Signed, r.Word.Unsigned, r.Word.Float, r.Word.Endian)
	case TagSummary:
		if r.Summary == nil {
			return "SUMMARY"
		}
		s := r.Summary
		return fmt.Sprintf("SUMMARY words=%d data_runs=%d void_runs=%d short_gaps=%d data_bytes=%d void_bytes=%d",
			s.Words, s.DataRuns, s.VoidRuns, s.ShortGaps, s.DataBytes, s.VoidBytes)
	default:
		return r.Tag
	}
}

// Sink receives records emitted by a Reporter
type Sink interface {
	Emit(rec Record)
	Enabled(level logrus.Level) bool
}

// Reporter formats scan events into records
type Reporter struct {
	sink         Sink
	reportOffset uint64
	scanID       string
	source       string
}

// NewReporter creates a reporter writing to sink.
// reportOffset is subtracted from every displayed end offset.
func NewReporter(sink Sink, reportOffset uint64) *Reporter {
	return &Reporter{sink: sink, reportOffset: reportOffset}
}

// WithScan returns a copy of the reporter tagging records with a scan id and source name
func (r *Reporter) WithScan(scanID, source string) *Reporter {
	cp := *r
	cp.scanID = scanID
	cp.source = source
	return &cp
}

// TraceEnabled reports whether per-word records would reach the sink
func (r *Reporter) TraceEnabled() bool {
	return r.sink.Enabled(logrus.TraceLevel)
}

// DisplayEnd applies the report offset to a raw end offset, saturating at zero
func (r *Reporter) DisplayEnd(end uint64) uint64 {
	if end < r.reportOffset {
		return 0
	}
	return end - r.reportOffset
}

// ReportData emits an info record for a data run
func (r *Reporter) ReportData(run scan.Run, res inference.Result) {
	r.emit(Record{
		Tag:       TagData,
		Level:     logrus.InfoLevel,
		Start:     run.Start,
		End:       r.DisplayEnd(run.End),
		Size:      run.Size(),
		Inference: &res,
	})
}

// ReportVoid emits a debug record for a void region
func (r *Reporter) ReportVoid(run scan.Run) {
	r.emit(Record{
		Tag:   TagVoid,
		Level: logrus.DebugLevel,
		Start: run.Start,
		End:   r.DisplayEnd(run.End),
		Size:  run.Size(),
	})
}

// ReportWord emits a trace record for a single decoded word at offset
func (r *Reporter) ReportWord(offset uint64, d inference.Decoded, endian scan.Endian) {
	r.emit(Record{
		Tag:   TagWord,
		Level: logrus.TraceLevel,
		Start: offset,
		End:   r.DisplayEnd(offset + scan.WordSize),
		Size:  scan.WordSize,
		Word: &WordDecode{
			Signed:   d.Signed,
			Unsigned: d.Unsigned,
			Float:    inference.Float(d.Float),
			Endian:   endian.String(),
		},
	})
}

// ReportSummary emits the per-buffer summary at info level
func (r *Reporter) ReportSummary(s *Summary) {
	r.emit(Record{
		Tag:     TagSummary,
		Level:   logrus.InfoLevel,
		Size:    s.Words * scan.WordSize,
		Summary: s,
	})
}

func (r *Reporter) emit(rec Record) {
	if !r.sink.Enabled(rec.Level) {
		return
	}
	rec.ScanID = r.scanID
	rec.Source = r.source
	r.sink.Emit(rec)
}
