package tile

import "github.com/bodgit/gbgfx/color"

// Flip is a mirroring transform. The bits match the attribute map.
type Flip uint8

const (
	FlipNone Flip = 0
	FlipX    Flip = 1 << 0
	FlipY    Flip = 1 << 1
	FlipXY        = FlipX | FlipY
)

// Flips lists every transform in the order candidates are tried.
var Flips = [...]Flip{FlipNone, FlipX, FlipY, FlipXY}

func (f Flip) String() string {
	switch f {
	case FlipNone:
		return "none"
	case FlipX:
		return "horizontal"
	case FlipY:
		return "vertical"
	case FlipXY:
		return "both"
	}
	return "invalid"
}

// source returns the offset of the pixel that ends up at (x, y) once the
// transform is applied. Every transform is its own inverse.
func (f Flip) source(x, y, size int) int {
	if f&FlipX != 0 {
		x = size - 1 - x
	}
	if f&FlipY != 0 {
		y = size - 1 - y
	}
	return y*size + x
}

// Apply returns pix, a square of size by size colors, with f applied.
func Apply(pix []color.CGB, size int, f Flip) []color.CGB {
	out := make([]color.CGB, len(pix))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out[y*size+x] = pix[f.source(x, y, size)]
		}
	}
	return out
}

// ApplyIndices is Apply for palette indices.
func ApplyIndices(pix []uint8, size int, f Flip) []uint8 {
	out := make([]uint8, len(pix))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out[y*size+x] = pix[f.source(x, y, size)]
		}
	}
	return out
}
