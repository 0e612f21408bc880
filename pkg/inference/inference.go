/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Type hypothesis model for data runs. Defines the closed set of assumed
types, the inference result, and the ordered decision table used to pick the
narrowest plausible type from an observed value range.
*/

package inference

import (
	"fmt"
	"math"
)

// AssumedType is the best-fit primitive type hypothesis for a data run
// Values are ordered from narrowest to widest representation.
type AssumedType int

const (
	TypeBool AssumedType = iota
	TypeI8
	TypeI16
	TypeI32
	TypeU8
	TypeU16
	TypeU32
	TypeZero
)

var typeNames = map[AssumedType]string{
	TypeBool: "bool",
	TypeI8:   "i8",
	TypeI16:  "i16",
	TypeI32:  "i32",
	TypeU8:   "u8",
	TypeU16:  "u16",
	TypeU32:  "u32",
	TypeZero: "zero",
}

// String implements fmt.Stringer
func (t AssumedType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// MarshalText lets report encoders write the type by name
func (t AssumedType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText reads a type written by MarshalText
func (t *AssumedType) UnmarshalText(text []byte) error {
	for typ, name := range typeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown assumed type: %q", text)
}

// AllTypes returns every assumed type in declaration order
func AllTypes() []AssumedType {
	return []AssumedType{TypeBool, TypeI8, TypeI16, TypeI32, TypeU8, TypeU16, TypeU32, TypeZero}
}

// Result is the inference produced for one data run
type Result struct {
	AssumedType     AssumedType `json:"assumed_type" yaml:"assumed_type"`
	Min             int64       `json:"min" yaml:"min"`
	Max             int64       `json:"max" yaml:"max"`
	MinFloat        Float       `json:"min_float" yaml:"min_float"`
	MaxFloat        Float       `json:"max_float" yaml:"max_float"`
	FloatPlausible  bool        `json:"float_plausible" yaml:"float_plausible"`
	StringPlausible bool        `json:"string_plausible" yaml:"string_plausible"`
}

// Rule is one row of the type selection table
type Rule struct {
	Type  AssumedType
	Match func(min, max int64) bool
}

func isBit(v int64) bool {
	return v == 0 || v == 1
}

func signed(min, max int64) bool {
	return min < 0 || max < 0
}

func within(min, max, lo, hi int64) bool {
	return min >= lo && max <= hi
}

// SelectionRules is evaluated top to bottom; the first matching rule wins.
// The signed rules only apply when the range has a negative bound, the
// unsigned rules only when it has a positive one.
var SelectionRules = []Rule{
	{TypeBool, func(min, max int64) bool { return isBit(min) && isBit(max) }},
	{TypeI8, func(min, max int64) bool { return signed(min, max) && within(min, max, math.MinInt8, math.MaxInt8) }},
	{TypeI16, func(min, max int64) bool { return signed(min, max) && within(min, max, math.MinInt16, math.MaxInt16) }},
	{TypeI32, func(min, max int64) bool { return signed(min, max) }},
	{TypeU8, func(min, max int64) bool { return max > 0 && within(min, max, 0, math.MaxUint8) }},
	{TypeU16, func(min, max int64) bool { return max > 0 && within(min, max, 0, math.MaxUint16) }},
	{TypeU32, func(min, max int64) bool { return max > 0 }},
	{TypeZero, func(min, max int64) bool { return true }},
}

// SelectType picks the assumed type for the range [min, max]
func SelectType(min, max int64) AssumedType {
	for _, rule := range SelectionRules {
		if rule.Match(min, max) {
			return rule.Type
		}
	}
	return TypeZero
}
