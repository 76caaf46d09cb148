package gbgfx

import (
	"errors"
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sprites returns a 32x16 image of 8 tiles with at most 3 opaque colors
// each. Tiles 5 and 6 are mirrors of tile 0 and tile 7 repeats it.
func sprites() *image.NRGBA {
	colors := []stdcolor.NRGBA{
		exact(31, 0, 0),
		exact(0, 31, 0),
		exact(0, 0, 31),
		exact(16, 16, 16),
		exact(5, 10, 20),
	}
	pattern := func(i, x, y int) stdcolor.NRGBA {
		switch {
		case x+y < 4:
			return stdcolor.NRGBA{}
		case x < y:
			return colors[i%len(colors)]
		case x == y:
			return colors[(i+1)%len(colors)]
		}
		return colors[(i+2)%len(colors)]
	}

	m := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for i := 0; i < 8; i++ {
		tx, ty := i%4*8, i/4*8
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				var c stdcolor.NRGBA
				switch i {
				case 5:
					c = pattern(0, 7-x, y)
				case 6:
					c = pattern(0, 7-x, 7-y)
				case 7:
					c = pattern(0, x, y)
				default:
					c = pattern(i, x, y)
				}
				m.SetNRGBA(tx+x, ty+y, c)
			}
		}
	}
	return m
}

func artifacts(r *Result) *Artifacts {
	return &Artifacts{
		TileData: r.TileData,
		Tilemap:  r.Tilemap,
		Attrmap:  r.Attrmap,
		Palmap:   r.Palmap,
		Palettes: r.Palettes,
	}
}

func TestRoundTrip(t *testing.T) {
	m := sprites()

	tests := map[string]func(o *Options){
		"plain":        func(o *Options) {},
		"dedup":        func(o *Options) { o.AllowDedup = true },
		"mirror":       func(o *Options) { o.AllowMirroring = true },
		"column major": func(o *Options) { o.ColumnMajor, o.AllowMirroring = true, true },
		"curve":        func(o *Options) { o.UseColorCurve = true },
		"banks": func(o *Options) {
			o.MaxNbTiles = [2]int{3, 5}
			o.BaseTileIDs = [2]int{0x80, 0xfe}
		},
	}

	for name, f := range tests {
		opts := NewOptions()
		f(opts)
		r, d, err := newConverter(t, "").Convert(m, opts)
		require.NoError(t, err, name)
		require.NoError(t, d.Err(), name)

		opts.Stride = 4
		got, err := Reverse(artifacts(r), opts)
		require.NoError(t, err, name)

		if opts.UseColorCurve {
			// Colors only survive the curve approximately, compare the
			// transparency mask
			for i := 3; i < len(m.Pix); i += 4 {
				assert.Equal(t, m.Pix[i], got.Pix[i], name)
			}
			continue
		}

		assert.Equal(t, m.Rect, got.Rect, name)
		if diff := deep.Equal(m.Pix, got.Pix); diff != nil {
			t.Errorf("%s: %v", name, diff)
		}
	}
}

func TestReverseDefaults(t *testing.T) {
	// Two tiles, the second using every shade
	data := make([]byte, 32)
	for i := 16; i < 32; i += 2 {
		data[i], data[i+1] = 0x55, 0x33
	}

	opts := NewOptions()
	opts.Stride = 3
	opts.Trim = 1
	m, err := Reverse(&Artifacts{TileData: data}, opts)
	require.NoError(t, err)

	// Two stored tiles plus a trimmed one in a single row
	assert.Equal(t, image.Rect(0, 0, 24, 8), m.Rect)
	assert.Equal(t, stdcolor.NRGBA{0xff, 0xff, 0xff, 0xff}, m.NRGBAAt(0, 0))
	assert.Equal(t, stdcolor.NRGBA{0xff, 0xff, 0xff, 0xff}, m.NRGBAAt(8, 0))
	assert.Equal(t, stdcolor.NRGBA{0xad, 0xad, 0xad, 0xff}, m.NRGBAAt(9, 0))
	assert.Equal(t, stdcolor.NRGBA{0x52, 0x52, 0x52, 0xff}, m.NRGBAAt(10, 0))
	assert.Equal(t, stdcolor.NRGBA{0x00, 0x00, 0x00, 0xff}, m.NRGBAAt(11, 0))
	assert.Equal(t, stdcolor.NRGBA{0xff, 0xff, 0xff, 0xff}, m.NRGBAAt(16, 0))

	// A partial last row stays transparent
	opts.Stride = 2
	opts.Trim = 0
	data = append(data, make([]byte, 16)...)
	m, err = Reverse(&Artifacts{TileData: data}, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), m.Rect)
	assert.Equal(t, stdcolor.NRGBA{}, m.NRGBAAt(8, 8))

	// Two shades are white and black
	opts = NewOptions()
	opts.BitDepth = 1
	opts.Stride = 1
	m, err = Reverse(&Artifacts{TileData: append([]byte{0x80}, make([]byte, 7)...)}, opts)
	require.NoError(t, err)
	assert.Equal(t, stdcolor.NRGBA{0x00, 0x00, 0x00, 0xff}, m.NRGBAAt(0, 0))
	assert.Equal(t, stdcolor.NRGBA{0xff, 0xff, 0xff, 0xff}, m.NRGBAAt(1, 0))
}

func TestReverseOutOfRange(t *testing.T) {
	opts := NewOptions()
	opts.Stride = 1
	data := make([]byte, 16)

	tests := map[string]*Artifacts{
		"tile":   {TileData: data, Tilemap: []byte{1}},
		"bank":   {TileData: data, Tilemap: []byte{0}, Attrmap: []byte{0x08}},
		"palmap": {TileData: data, Tilemap: []byte{0}, Palmap: []byte{1}},
		"color": {
			TileData: append([]byte{0xff, 0xff}, make([]byte, 14)...),
			Palettes: []byte{0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
	}

	for name, a := range tests {
		_, err := Reverse(a, opts)
		assert.True(t, errors.Is(err, ErrReverseIndexOutOfRange), name)
	}
}

func TestReverseErrors(t *testing.T) {
	opts := NewOptions()
	_, err := Reverse(&Artifacts{TileData: make([]byte, 16)}, opts)
	assert.Equal(t, errStride, err)

	opts.Stride = 1
	tests := map[string]*Artifacts{
		"short tile data": {TileData: make([]byte, 15)},
		"attrmap length":  {TileData: make([]byte, 16), Attrmap: []byte{0, 0}},
		"palmap length":   {TileData: make([]byte, 16), Tilemap: []byte{0}, Palmap: []byte{}},
		"palette table":   {TileData: make([]byte, 16), Palettes: []byte{0x00}},
	}
	for name, a := range tests {
		_, err := Reverse(a, opts)
		assert.Error(t, err, name)
		assert.False(t, errors.Is(err, ErrReverseIndexOutOfRange), name)
	}
}
