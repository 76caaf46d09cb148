/*
Package color implements the color model used by the Game Boy Color.

Colors are stored by the hardware as 15-bit values packed as
0BBBBBGGGGGRRRRR. Source images are truecolor with alpha so every pixel is
first classified as transparent, opaque or semi-transparent and opaque
pixels are then reduced to 15 bits, optionally through a color curve that
compensates for the darker LCD.
*/
package color

import (
	"fmt"
	"image/color"
)

const (
	transparentThreshold = 0x10
	opaqueThreshold      = 0xf0
)

// Rgba is a non-premultiplied truecolor value with alpha.
type Rgba struct {
	R, G, B, A uint8
}

// FromColor converts any color.Color into an Rgba.
func FromColor(c color.Color) Rgba {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Rgba{n.R, n.G, n.B, n.A}
}

// RGBA implements the color.Color interface.
func (c Rgba) RGBA() (uint32, uint32, uint32, uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA returns the color as a color.NRGBA.
func (c Rgba) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsTransparent reports whether the color counts as fully transparent.
func (c Rgba) IsTransparent() bool {
	return c.A < transparentThreshold
}

// IsOpaque reports whether the color counts as fully opaque.
func (c Rgba) IsOpaque() bool {
	return c.A >= opaqueThreshold
}

// CSS returns the color as #rrggbb.
func (c Rgba) CSS() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CGB reduces the color to 15 bits. Transparent colors map to Transparent,
// semi-transparent ones are treated as opaque; callers are expected to
// have reported them already.
func (c Rgba) CGB(curve bool) CGB {
	if c.IsTransparent() {
		return Transparent
	}
	if curve {
		return CGB(nearest(c.R)) | CGB(nearest(c.G))<<5 | CGB(nearest(c.B))<<10
	}
	return CGB(c.R>>3) | CGB(c.G>>3)<<5 | CGB(c.B>>3)<<10
}

// CGB is a packed 15-bit color. Bit 15 is never set for an opaque color,
// which leaves room for Transparent.
type CGB uint16

// Transparent is the CGB value of any transparent pixel.
const Transparent CGB = 0x8000

// IsTransparent reports whether c is the transparent value.
func (c CGB) IsTransparent() bool {
	return c == Transparent
}

// Valid reports whether c is either an opaque 15-bit color or Transparent.
func (c CGB) Valid() bool {
	return c&0x8000 == 0 || c == Transparent
}

func (c CGB) channels() (uint8, uint8, uint8) {
	return uint8(c & 0x1f), uint8(c >> 5 & 0x1f), uint8(c >> 10 & 0x1f)
}

// Rgba expands the color back to truecolor. Without the curve each 5-bit
// channel is scaled so that 0x1f becomes 0xff.
func (c CGB) Rgba(curve bool) Rgba {
	if c.IsTransparent() {
		return Rgba{}
	}
	r, g, b := c.channels()
	if curve {
		return Rgba{curveTable[r], curveTable[g], curveTable[b], 0xff}
	}
	return Rgba{expand(r), expand(g), expand(b), 0xff}
}

func (c CGB) String() string {
	if c.IsTransparent() {
		return "transparent"
	}
	return fmt.Sprintf("$%04x", uint16(c))
}

func expand(v uint8) uint8 {
	return v<<3 | v>>2
}

// Brightness the LCD shows for each 5-bit channel value.
var curveTable = [32]uint8{
	0, 1, 3, 6, 10, 14, 18, 24,
	29, 35, 42, 49, 56, 63, 71, 80,
	89, 98, 107, 117, 126, 137, 147, 158,
	169, 181, 192, 204, 217, 229, 242, 255,
}

// nearest returns the 5-bit value whose displayed brightness is closest to
// v, preferring the darker value on a tie.
func nearest(v uint8) uint8 {
	best, bestDiff := uint8(0), 256
	for i, c := range curveTable {
		d := int(v) - int(c)
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			best, bestDiff = uint8(i), d
		}
	}
	return best
}
