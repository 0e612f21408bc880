/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: float.go
Description: Float32 value carried in inference results and word decodes. JSON
has no literal for NaN or infinity, so non-finite values are written as the
strings "NaN", "+Inf" and "-Inf" and read back from them.
*/

package inference

import (
	"fmt"
	"math"
	"strconv"
)

// Float is a float32 that always encodes to valid JSON
type Float float32

const (
	floatNaN    = "NaN"
	floatPosInf = "+Inf"
	floatNegInf = "-Inf"
)

// MarshalJSON writes finite values as numbers and non-finite ones as strings
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"` + floatNaN + `"`), nil
	case math.IsInf(v, 1):
		return []byte(`"` + floatPosInf + `"`), nil
	case math.IsInf(v, -1):
		return []byte(`"` + floatNegInf + `"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 32), nil
}

// UnmarshalJSON accepts a number, null, or one of the non-finite strings
func (f *Float) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case "null":
		return nil
	case `"` + floatNaN + `"`:
		*f = Float(math.NaN())
		return nil
	case `"` + floatPosInf + `"`:
		*f = Float(math.Inf(1))
		return nil
	case `"` + floatNegInf + `"`:
		*f = Float(math.Inf(-1))
		return nil
	}

	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return fmt.Errorf("invalid float value %s: %w", s, err)
	}
	*f = Float(v)
	return nil
}

// IsFinite reports whether the value is neither NaN nor infinite
func (f Float) IsFinite() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
