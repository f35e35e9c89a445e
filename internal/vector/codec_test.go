package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("passes through float32 slices", func(t *testing.T) {
		in := []float32{0.1, 0.2, 0.3}
		assert.Equal(t, in, Parse(in))
	})

	t.Run("converts float64 slices", func(t *testing.T) {
		got := Parse([]float64{0.5, 1.0})
		assert.Equal(t, []float32{0.5, 1.0}, got)
	})

	t.Run("converts interface slices of JSON numbers", func(t *testing.T) {
		got := Parse([]interface{}{float64(0.25), float64(-1)})
		assert.Equal(t, []float32{0.25, -1}, got)
	})

	t.Run("parses JSON array strings", func(t *testing.T) {
		got := Parse("[0.1, 0.2, 0.3]")
		require.Len(t, got, 3)
		assert.InDelta(t, 0.1, got[0], 1e-6)
		assert.InDelta(t, 0.3, got[2], 1e-6)
	})

	t.Run("parses brace-delimited array strings", func(t *testing.T) {
		got := Parse("{0.1,0.2,0.3}")
		require.Len(t, got, 3)
		assert.InDelta(t, 0.2, got[1], 1e-6)
	})

	t.Run("tolerates surrounding whitespace", func(t *testing.T) {
		assert.Len(t, Parse("  [1,2]  "), 2)
	})

	t.Run("malformed input yields nil, never panics", func(t *testing.T) {
		cases := []interface{}{
			"invalid",
			nil,
			"{}",
			"[]",
			"[1,notanumber]",
			"{1,,2}",
			42,
			map[string]string{"a": "b"},
			[]interface{}{"not", "numbers"},
			"",
		}
		for _, c := range cases {
			assert.Empty(t, Parse(c))
		}
	})
}

func TestFormatRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{-1.5, 0, 2.25},
		{1e-7, 3.1415927, -0.000123},
		{1},
	}

	for _, v := range vectors {
		got := Parse(Format(v))
		assert.Equal(t, v, got)
	}
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "[]", Format(nil))
	assert.Empty(t, Parse(Format(nil)))
}
