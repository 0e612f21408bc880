/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sinks.go
Description: Sink implementations for scan records. LogSink forwards records to a
logrus logger at the record's level, MemorySink keeps them for report files
and tests, MultiSink fans out to several sinks.
*/

package reporting

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// LogSink writes records through a logrus logger
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a new LogSink
func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the record's message with its scan metadata attached
func (s *LogSink) Emit(rec Record) {
	fields := logrus.Fields{}
	if rec.Source != "" {
		fields["source"] = rec.Source
	}
	if rec.ScanID != "" {
		fields["scan_id"] = rec.ScanID
	}
	if rec.Summary != nil && len(rec.Summary.TypeCounts) > 0 {
		fields["types"] = rec.Summary.TypeCounts
	}
	s.logger.WithFields(fields).Log(rec.Level, rec.Message())
}

// Enabled reports whether the logger would output the level
func (s *LogSink) Enabled(level logrus.Level) bool {
	return s.logger.IsLevelEnabled(level)
}

// MemorySink collects records up to a maximum verbosity
type MemorySink struct {
	mu      sync.Mutex
	level   logrus.Level
	records []Record
}

// NewMemorySink creates a sink keeping records at level or more severe
func NewMemorySink(level logrus.Level) *MemorySink {
	return &MemorySink{level: level}
}

// Emit stores the record
func (s *MemorySink) Emit(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Enabled reports whether the level is within the sink's verbosity
func (s *MemorySink) Enabled(level logrus.Level) bool {
	return level <= s.level
}

// Records returns a copy of the collected records
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Tagged returns the collected records carrying tag
func (s *MemorySink) Tagged(tag string) []Record {
	var out []Record
	for _, rec := range s.Records() {
		if rec.Tag == tag {
			out = append(out, rec)
		}
	}
	return out
}

// Reset drops all collected records
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// MultiSink forwards each record to every member sink that accepts its level
type MultiSink []Sink

// Emit forwards the record
func (m MultiSink) Emit(rec Record) {
	for _, sink := range m {
		if sink.Enabled(rec.Level) {
			sink.Emit(rec)
		}
	}
}

// Enabled reports whether any member sink accepts the level
func (m MultiSink) Enabled(level logrus.Level) bool {
	for _, sink := range m {
		if sink.Enabled(level) {
			return true
		}
	}
	return false
}
