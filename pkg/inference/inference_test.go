/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference_test.go
Description: Tests for the binary inference engine and the type selection table.
*/

package inference_test

import (
	"math"
	"testing"

	"github.com/kleascm/blobscan/pkg/inference"
	"github.com/kleascm/blobscan/pkg/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le(v uint32) scan.Word {
	var w scan.Word
	scan.EndianLittle.Order().PutUint32(w[:], v)
	return w
}

func TestSelectTypeRules(t *testing.T) {
	cases := []struct {
		name     string
		min, max int64
		want     inference.AssumedType
	}{
		{"bool zero", 0, 0, inference.TypeBool},
		{"bool one", 0, 1, inference.TypeBool},
		{"bool ones", 1, 1, inference.TypeBool},
		{"i8 low", -128, 0, inference.TypeI8},
		{"i8 high", -1, 127, inference.TypeI8},
		{"i16 below i8", -129, 0, inference.TypeI16},
		{"i16 above i8", -1, 128, inference.TypeI16},
		{"i16 edge", -32768, 32767, inference.TypeI16},
		{"i32", -32769, 0, inference.TypeI32},
		{"i32 wide max", -1, math.MaxUint32, inference.TypeI32},
		{"u8", 0, 2, inference.TypeU8},
		{"u8 edge", 0, 255, inference.TypeU8},
		{"u16", 0, 256, inference.TypeU16},
		{"u16 edge", 0, 65535, inference.TypeU16},
		{"u32", 0, 65536, inference.TypeU32},
		{"u32 max", 0, math.MaxUint32, inference.TypeU32},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inference.SelectType(tc.min, tc.max))
		})
	}
}

func TestSelectionRulesOrder(t *testing.T) {
	require.Len(t, inference.SelectionRules, len(inference.AllTypes()))
	assert.Equal(t, inference.TypeBool, inference.SelectionRules[0].Type)
	assert.Equal(t, inference.TypeZero, inference.SelectionRules[len(inference.SelectionRules)-1].Type)

	// The fallback row matches anything, but Bool catches 0/0 first.
	assert.True(t, inference.SelectionRules[len(inference.SelectionRules)-1].Match(0, 0))
	assert.Equal(t, inference.TypeBool, inference.SelectType(0, 0))
}

func TestInferBool(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{{0x01, 0, 0, 0}, {0x01, 0, 0, 0}})

	assert.Equal(t, inference.TypeBool, res.AssumedType)
	assert.Equal(t, int64(0), res.Min)
	assert.Equal(t, int64(1), res.Max)
	assert.True(t, res.FloatPlausible)
}

func TestInferAllOnes(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{{0xFF, 0xFF, 0xFF, 0xFF}})

	assert.Equal(t, int64(-1), res.Min)
	assert.Equal(t, int64(math.MaxUint32), res.Max)
	assert.Equal(t, inference.TypeI32, res.AssumedType)
	assert.False(t, res.FloatPlausible, "0xFFFFFFFF decodes to NaN")
	assert.False(t, res.StringPlausible)
}

func TestInferString(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{{0x48, 0x65, 0x6C, 0x6C}})

	assert.True(t, res.StringPlausible)
	assert.Equal(t, int64(0x6C6C6548), res.Max)
	assert.Equal(t, inference.TypeU32, res.AssumedType)
}

func TestInferUnsignedWidths(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)

	assert.Equal(t, inference.TypeU8, engine.Infer([]scan.Word{le(200), le(3)}).AssumedType)
	assert.Equal(t, inference.TypeU16, engine.Infer([]scan.Word{le(0x1000)}).AssumedType)
	assert.Equal(t, inference.TypeU32, engine.Infer([]scan.Word{le(0x10000)}).AssumedType)
}

func TestInferSharedRangeWidensNegatives(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{le(uint32(0xFFFFFFFE))})

	// -2 signed, but the unsigned decode lands in the same max.
	assert.Equal(t, int64(-2), res.Min)
	assert.Equal(t, int64(0xFFFFFFFE), res.Max)
	assert.Equal(t, inference.TypeI32, res.AssumedType)
}

func TestInferFloatPlausible(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{le(math.Float32bits(1.0)), le(math.Float32bits(-2.5))})

	assert.True(t, res.FloatPlausible)
	assert.Equal(t, inference.Float(-2.5), res.MinFloat)
	assert.Equal(t, inference.Float(1.0), res.MaxFloat)
	assert.Equal(t, inference.TypeI32, res.AssumedType)

	res = engine.Infer([]scan.Word{le(math.Float32bits(1.0)), le(0x7FC00000)})
	assert.False(t, res.FloatPlausible, "one NaN disqualifies the run")
}

func TestInferBigEndian(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianBig)
	res := engine.Infer([]scan.Word{{0x00, 0x00, 0x00, 0x01}})
	assert.Equal(t, inference.TypeBool, res.AssumedType)

	res = engine.Infer([]scan.Word{{0x00, 0x00, 0x01, 0x00}})
	assert.Equal(t, int64(256), res.Max)
	assert.Equal(t, inference.TypeU16, res.AssumedType)
}

func TestInferObserver(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)

	var seen []inference.Decoded
	engine.SetObserver(func(d inference.Decoded) { seen = append(seen, d) })
	engine.Infer([]scan.Word{le(7), {0xFF, 0xFF, 0xFF, 0xFF}})

	require.Len(t, seen, 2)
	assert.Equal(t, 0, seen[0].Index)
	assert.Equal(t, int64(7), seen[0].Unsigned)
	assert.Equal(t, 1, seen[1].Index)
	assert.Equal(t, int64(-1), seen[1].Signed)
	assert.Equal(t, int64(math.MaxUint32), seen[1].Unsigned)
}

func TestAssumedTypeString(t *testing.T) {
	assert.Equal(t, "bool", inference.TypeBool.String())
	assert.Equal(t, "u16", inference.TypeU16.String())
	assert.Equal(t, "type(42)", inference.AssumedType(42).String())

	text, err := inference.TypeI32.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "i32", string(text))

	var typ inference.AssumedType
	require.NoError(t, typ.UnmarshalText([]byte("u8")))
	assert.Equal(t, inference.TypeU8, typ)
	assert.Error(t, typ.UnmarshalText([]byte("f64")))
}

func TestFloatJSON(t *testing.T) {
	cases := []struct {
		value inference.Float
		want  string
	}{
		{inference.Float(1.5), `1.5`},
		{inference.Float(-2), `-2`},
		{inference.Float(math.NaN()), `"NaN"`},
		{inference.Float(math.Inf(1)), `"+Inf"`},
		{inference.Float(math.Inf(-1)), `"-Inf"`},
	}

	for _, tc := range cases {
		data, err := tc.value.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))

		var back inference.Float
		require.NoError(t, back.UnmarshalJSON(data))
		if tc.value.IsFinite() {
			assert.Equal(t, tc.value, back)
		} else {
			assert.False(t, back.IsFinite())
			assert.Equal(t, math.IsNaN(float64(tc.value)), math.IsNaN(float64(back)))
		}
	}

	var f inference.Float
	assert.Error(t, f.UnmarshalJSON([]byte(`"Infinity"`)))
}

func TestInferInfiniteFloatRange(t *testing.T) {
	engine := inference.NewBinaryInferenceEngine(scan.EndianLittle)
	res := engine.Infer([]scan.Word{le(0x7F800000), le(0xFF800000)})

	assert.True(t, math.IsInf(float64(res.MaxFloat), 1))
	assert.True(t, math.IsInf(float64(res.MinFloat), -1))
	assert.True(t, res.FloatPlausible)
}
