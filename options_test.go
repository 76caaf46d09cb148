package gbgfx

import (
	"image"
	"testing"

	"github.com/bodgit/gbgfx/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
		err   bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{" 7 ", 7, false},
		{"$ff", 255, false},
		{"0x10", 16, false},
		{"0X1f", 31, false},
		{"%101", 5, false},
		{"0b11", 3, false},
		{"", 0, true},
		{"$", 0, true},
		{"-1", 0, true},
		{"12a", 0, true},
		{"65536", 0, true},
	}

	for _, tt := range tests {
		n, err := ParseNumber(tt.input)
		if tt.err {
			assert.Error(t, err, tt.input)
			continue
		}
		if assert.NoError(t, err, tt.input) {
			assert.Equal(t, tt.want, n, tt.input)
		}
	}
}

func TestParsePair(t *testing.T) {
	pair, n, err := ParsePair("$80")
	require.NoError(t, err)
	assert.Equal(t, [2]int{0x80, 0}, pair)
	assert.Equal(t, 1, n)

	pair, n, err = ParsePair("1, 2")
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, pair)
	assert.Equal(t, 2, n)

	_, _, err = ParsePair("1,2,3")
	assert.Error(t, err)

	_, _, err = ParsePair("1,")
	assert.Error(t, err)
}

func TestParseSlice(t *testing.T) {
	s, err := ParseSlice("8,16:32,$10")
	require.NoError(t, err)
	assert.Equal(t, Slice{8, 16, 32, 16}, s)
	assert.Equal(t, image.Rect(8, 16, 40, 32), s.Rect())
	assert.Equal(t, "8,16:32,16", s.String())

	for _, input := range []string{"8,16", "8:32,16", "8,16:32", "0,0:0,8", "0,0:8,0"} {
		_, err := ParseSlice(input)
		assert.Error(t, err, input)
	}
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	o.AllowMirroring = true
	require.NoError(t, o.Validate())
	assert.Equal(t, 4, o.ColorsPerPalette)
	assert.True(t, o.AllowDedup)
	assert.Equal(t, tile.DedupMirror, o.dedupMode())

	o = NewOptions()
	o.BitDepth = 1
	require.NoError(t, o.Validate())
	assert.Equal(t, 2, o.ColorsPerPalette)
	assert.Equal(t, tile.DedupNone, o.dedupMode())

	tests := map[string]func(o *Options){
		"bit depth":       func(o *Options) { o.BitDepth = 3 },
		"too many colors": func(o *Options) { o.BitDepth, o.ColorsPerPalette = 1, 3 },
		"no palettes":     func(o *Options) { o.NbPalettes = 0 },
		"many palettes":   func(o *Options) { o.NbPalettes = 257 },
		"unit size":       func(o *Options) { o.UnitSize = 12 },
		"trim":            func(o *Options) { o.Trim = -1 },
		"base ID":         func(o *Options) { o.BaseTileIDs[1] = 256 },
		"bank 1 tiles":    func(o *Options) { o.MaxNbTiles[1] = tile.Unlimited },
		"bank 0 tiles":    func(o *Options) { o.MaxNbTiles[0] = 257 },
		"slice":           func(o *Options) { o.InputSlice = Slice{Left: 8} },
		"empty spec":      func(o *Options) { o.PalSpecType = ExplicitSpec },
	}

	for name, f := range tests {
		o := NewOptions()
		f(o)
		assert.Error(t, o.Validate(), name)
	}
}
