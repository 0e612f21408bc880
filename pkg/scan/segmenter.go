/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: segmenter.go
Description: Run segmentation state machine. Groups consecutive words of the same
class (all-zero or not) into maximal runs and hands each completed run to a
callback. Zero runs shorter than VoidThreshold words are treated as padding
and are not marked for reporting.
*/

package scan

// VoidThreshold is the minimum number of zero words a void region must span to be reported
const VoidThreshold = 8

// RunKind classifies a run
type RunKind int

const (
	RunZero RunKind = iota
	RunData
)

// String implements fmt.Stringer
func (k RunKind) String() string {
	switch k {
	case RunZero:
		return "zero"
	case RunData:
		return "data"
	default:
		return "unknown"
	}
}

// Run is a maximal sequence of words sharing the same classification
type Run struct {
	Kind      RunKind
	Start     uint64 // offset of the first word
	End       uint64 // offset one past the last word
	WordCount uint64
	// Words holds the run's words for data runs. The slice is reused by the
	// segmenter and is only valid for the duration of the callback.
	Words []Word
	// Trailing is set for the run still open when the stream ended
	Trailing bool
	// Reported is false for runs that are tracked but not surfaced (short or trailing voids)
	Reported bool
}

// Size returns the run length in bytes
func (r Run) Size() uint64 {
	return r.WordCount * WordSize
}

type scanState int

const (
	stateIdle scanState = iota
	stateZero
	stateData
)

// Segmenter consumes words and emits runs.
// Only one run is open at a time: zero runs track start and count, data runs
// track start and their buffered words.
type Segmenter struct {
	state     scanState
	start     uint64
	zeroCount uint64
	words     []Word

	reportTrailingVoid bool
	emit               func(Run)
}

// NewSegmenter creates a segmenter that calls emit for every completed run
func NewSegmenter(emit func(Run)) *Segmenter {
	return &Segmenter{emit: emit}
}

// SetReportTrailingVoid controls whether a void region still open at end of stream is reported
func (s *Segmenter) SetReportTrailingVoid(enabled bool) {
	s.reportTrailingVoid = enabled
}

// Push feeds one word located at offset into the state machine
func (s *Segmenter) Push(w Word, offset uint64) {
	if w.IsZero() {
		switch s.state {
		case stateData:
			s.flushData(offset, false)
			s.openZero(offset)
		case stateIdle:
			s.openZero(offset)
		}
		s.zeroCount++
		return
	}

	switch s.state {
	case stateZero:
		s.flushZero(offset, false)
		s.openData(offset)
	case stateIdle:
		s.openData(offset)
	}
	s.words = append(s.words, w)
}

// Finish closes the stream. end is the offset just past the last word read.
// An open data run is always flushed; an open zero run is emitted as trailing.
func (s *Segmenter) Finish(end uint64) {
	switch s.state {
	case stateData:
		s.flushData(end, true)
	case stateZero:
		s.flushZero(end, true)
	}
	s.state = stateIdle
}

// Run drives the segmenter from a word reader until it is exhausted
func (s *Segmenter) Run(r *WordReader) {
	for {
		w, offset, ok := r.Next()
		if !ok {
			break
		}
		s.Push(w, offset)
	}
	s.Finish(r.Offset())
}

func (s *Segmenter) openZero(offset uint64) {
	s.state = stateZero
	s.start = offset
	s.zeroCount = 0
}

func (s *Segmenter) openData(offset uint64) {
	s.state = stateData
	s.start = offset
	s.words = s.words[:0]
}

func (s *Segmenter) flushData(end uint64, trailing bool) {
	s.emit(Run{
		Kind:      RunData,
		Start:     s.start,
		End:       end,
		WordCount: uint64(len(s.words)),
		Words:     s.words,
		Trailing:  trailing,
		Reported:  true,
	})
	s.words = s.words[:0]
}

func (s *Segmenter) flushZero(end uint64, trailing bool) {
	reported := s.zeroCount >= VoidThreshold && (!trailing || s.reportTrailingVoid)
	s.emit(Run{
		Kind:      RunZero,
		Start:     s.start,
		End:       end,
		WordCount: s.zeroCount,
		Trailing:  trailing,
		Reported:  reported,
	})
	s.zeroCount = 0
}
