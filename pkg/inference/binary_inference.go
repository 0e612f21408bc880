/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: binary_inference.go
Description: Binary word inference engine. Decodes every word of a data run four
ways (signed, unsigned, float, raw bytes), folds the decodes into running
aggregates, and derives a type hypothesis from them.
*/

package inference

import (
	"math"
	"unicode/utf8"

	"github.com/kleascm/blobscan/pkg/scan"
)

// Decoded holds the four interpretations of a single word
type Decoded struct {
	Index    int
	Word     scan.Word
	Signed   int64
	Unsigned int64
	Float    float32
}

// BinaryInferenceEngine infers a type hypothesis from the words of a data run
type BinaryInferenceEngine struct {
	endian   scan.Endian
	observer func(Decoded)
}

// NewBinaryInferenceEngine creates a new binary inference engine
func NewBinaryInferenceEngine(endian scan.Endian) *BinaryInferenceEngine {
	return &BinaryInferenceEngine{endian: endian}
}

// SetObserver registers a callback receiving every decoded word.
// Passing nil disables per-word observation.
func (e *BinaryInferenceEngine) SetObserver(observer func(Decoded)) {
	e.observer = observer
}

// Endian returns the byte order used for decoding
func (e *BinaryInferenceEngine) Endian() scan.Endian {
	return e.endian
}

// Decode interprets a single word under the engine's endianness
func (e *BinaryInferenceEngine) Decode(w scan.Word) Decoded {
	bits := e.endian.Order().Uint32(w[:])
	return Decoded{
		Word:     w,
		Signed:   int64(int32(bits)),
		Unsigned: int64(bits),
		Float:    math.Float32frombits(bits),
	}
}

// Infer folds all words of a run into a Result.
// Signed and unsigned decodes share one min/max pair, and both bounds start at zero.
func (e *BinaryInferenceEngine) Infer(words []scan.Word) Result {
	var (
		min, max           int64
		minFloat, maxFloat float32
		floatPlausible     = true
		raw                = make([]byte, 0, len(words)*scan.WordSize)
	)

	for i, w := range words {
		d := e.Decode(w)
		d.Index = i
		if e.observer != nil {
			e.observer(d)
		}

		for _, n := range [2]int64{d.Signed, d.Unsigned} {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}

		if d.Float < minFloat {
			minFloat = d.Float
		}
		if d.Float > maxFloat {
			maxFloat = d.Float
		}
		if math.IsNaN(float64(d.Float)) {
			floatPlausible = false
		}

		raw = append(raw, w[:]...)
	}

	return Result{
		AssumedType:     SelectType(min, max),
		Min:             min,
		Max:             max,
		MinFloat:        Float(minFloat),
		MaxFloat:        Float(maxFloat),
		FloatPlausible:  floatPlausible,
		StringPlausible: utf8.Valid(raw),
	}
}
