package color

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		alpha       uint8
		transparent bool
		opaque      bool
	}{
		{0x00, true, false},
		{0x0f, true, false},
		{0x10, false, false},
		{0x80, false, false},
		{0xef, false, false},
		{0xf0, false, true},
		{0xff, false, true},
	}

	for _, tt := range tests {
		c := Rgba{0x12, 0x34, 0x56, tt.alpha}
		assert.Equal(t, tt.transparent, c.IsTransparent(), "alpha %#02x", tt.alpha)
		assert.Equal(t, tt.opaque, c.IsOpaque(), "alpha %#02x", tt.alpha)
	}
}

func TestCGBPacking(t *testing.T) {
	assert.Equal(t, CGB(0x7fff), Rgba{0xff, 0xff, 0xff, 0xff}.CGB(false))
	assert.Equal(t, CGB(0x001f), Rgba{0xff, 0x00, 0x00, 0xff}.CGB(false))
	assert.Equal(t, CGB(0x03e0), Rgba{0x00, 0xff, 0x00, 0xff}.CGB(false))
	assert.Equal(t, CGB(0x7c00), Rgba{0x00, 0x00, 0xff, 0xff}.CGB(false))
	assert.Equal(t, Transparent, Rgba{0xff, 0xff, 0xff, 0x00}.CGB(false))
	assert.Equal(t, Transparent, Rgba{0xff, 0xff, 0xff, 0x00}.CGB(true))
}

func TestExpandRoundTrip(t *testing.T) {
	for _, curve := range []bool{false, true} {
		for v := CGB(0); v < 0x8000; v += 0x0421 {
			assert.Equal(t, v, v.Rgba(curve).CGB(curve), "curve %t", curve)
		}
	}
	assert.Equal(t, Rgba{}, Transparent.Rgba(false))
}

func TestCurveIsMonotonic(t *testing.T) {
	for i := 1; i < len(curveTable); i++ {
		assert.True(t, curveTable[i] > curveTable[i-1], "entry %d", i)
	}
	assert.Equal(t, uint8(0), nearest(0))
	assert.Equal(t, uint8(31), nearest(255))
	// Exactly between 1 and 3, the darker value wins
	assert.Equal(t, uint8(1), nearest(2))
}

func TestValid(t *testing.T) {
	assert.True(t, CGB(0x7fff).Valid())
	assert.True(t, Transparent.Valid())
	assert.False(t, CGB(0xffff).Valid())
	assert.False(t, CGB(0x8001).Valid())
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Rgba{0x10, 0x20, 0x30, 0xff}, FromColor(color.RGBA{0x10, 0x20, 0x30, 0xff}))
	assert.Equal(t, "#102030", FromColor(color.NRGBA{0x10, 0x20, 0x30, 0xff}).CSS())
}

func TestSet(t *testing.T) {
	var s Set
	s.Add(3)
	s.Add(1)
	s.Add(3)
	s.Add(Transparent)
	assert.Equal(t, Set{3, 1}, s)
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(2))
}
