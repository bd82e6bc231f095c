package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
		wantErr  bool
	}{
		{"int", 42, 42, false},
		{"int8", int8(-8), -8, false},
		{"uint32", uint32(7), 7, false},
		{"uint64 max", uint64(math.MaxUint64), 0, true},
		{"float64", 3.9, 3, false},
		{"float NaN", math.NaN(), 0, true},
		{"bool", true, 1, false},
		{"string", "12", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt64(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToFloat64(t *testing.T) {
	f, err := ToFloat64(int16(3))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, f, 1e-9)

	f, err = ToFloat64(float32(1.5))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-9)

	_, err = ToFloat64("1.5")
	assert.Error(t, err)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "12", ToString(int64(12)))
	assert.Equal(t, "0.5", ToString(0.5))
	assert.Equal(t, "True", ToString(true))
	assert.Equal(t, "[1 2]", ToString([]int{1, 2}))
}

func TestAsInt(t *testing.T) {
	n, ok := AsInt(int32(-3))
	assert.True(t, ok)
	assert.Equal(t, -3, n)

	_, ok = AsInt("3")
	assert.False(t, ok)

	_, ok = AsInt(true)
	assert.False(t, ok)
}
