/*
Package palette implements the fixed-size palettes of the Game Boy Color
and the packing of per-tile color sets into a bounded number of them.

A palette holds at most four colors. When the source image has transparent
pixels anywhere, slot 0 of every palette is reserved for transparency so
that index 0 always means "transparent" regardless of the palette a tile
uses.
*/
package palette

import (
	"fmt"
	"strings"

	"github.com/bodgit/gbgfx/color"
)

const (
	// MaxColors is the largest number of colors a palette can hold
	MaxColors = 4
	// MaxPalettes is the largest number of palettes that can be addressed
	MaxPalettes = 256
)

type slot struct {
	color color.CGB
	ok    bool
}

// Palette is an ordered, fixed-capacity list of colors.
type Palette struct {
	slots    []slot
	reserved bool
}

// New returns an empty palette of the given capacity. If reserved is true,
// slot 0 holds the transparent color and is not available for opaque
// colors.
func New(capacity int, reserved bool) *Palette {
	if capacity < 1 || capacity > MaxColors || (reserved && capacity < 2) {
		panic(fmt.Sprintf("palette: invalid capacity %d", capacity))
	}
	p := &Palette{
		slots:    make([]slot, capacity),
		reserved: reserved,
	}
	if reserved {
		p.slots[0] = slot{color.Transparent, true}
	}
	return p
}

func (p *Palette) first() int {
	if p.reserved {
		return 1
	}
	return 0
}

// Cap returns the total number of slots, reserved slot included.
func (p *Palette) Cap() int {
	return len(p.slots)
}

// Reserved reports whether slot 0 is reserved for transparency.
func (p *Palette) Reserved() bool {
	return p.reserved
}

// Free returns the number of empty slots.
func (p *Palette) Free() int {
	return len(p.slots) - p.first() - p.Size()
}

// AddColor adds c to the first empty slot unless it is already present.
// The caller must make sure there is room for it.
func (p *Palette) AddColor(c color.CGB) {
	for i := p.first(); i < len(p.slots); i++ {
		switch {
		case !p.slots[i].ok:
			p.slots[i] = slot{c, true}
			return
		case p.slots[i].color == c:
			return
		}
	}
	panic(fmt.Sprintf("palette: no room for color %v", c))
}

// IndexOf returns the slot index of c. The transparent color is always at
// index 0 of a palette with a reserved slot. If c is not present the
// result is Size() plus the reserved offset, which is never a valid index
// of an occupied slot.
func (p *Palette) IndexOf(c color.CGB) uint8 {
	if c.IsTransparent() && p.reserved {
		return 0
	}
	i := p.first()
	for ; i < len(p.slots) && p.slots[i].ok; i++ {
		if p.slots[i].color == c {
			break
		}
	}
	return uint8(i)
}

// Size returns the number of opaque colors, not counting the reserved
// transparency slot.
func (p *Palette) Size() (n int) {
	for i := p.first(); i < len(p.slots) && p.slots[i].ok; i++ {
		n++
	}
	return
}

// Colors returns the opaque colors in slot order.
func (p *Palette) Colors() []color.CGB {
	colors := make([]color.CGB, 0, len(p.slots))
	for i := p.first(); i < len(p.slots) && p.slots[i].ok; i++ {
		colors = append(colors, p.slots[i].color)
	}
	return colors
}

// At returns the color held by slot i, if any.
func (p *Palette) At(i int) (color.CGB, bool) {
	if i < 0 || i >= len(p.slots) {
		return 0, false
	}
	return p.slots[i].color, p.slots[i].ok
}

// Missing returns the colors of s not yet present in the palette, in the
// order of s.
func (p *Palette) Missing(s color.Set) (d []color.CGB) {
	for _, c := range s {
		if int(p.IndexOf(c)) == p.first()+p.Size() {
			d = append(d, c)
		}
	}
	return
}

// Contains reports whether every color of s is present.
func (p *Palette) Contains(s color.Set) bool {
	return len(p.Missing(s)) == 0
}

func (p *Palette) String() string {
	s := make([]string, 0, len(p.slots))
	for _, sl := range p.slots {
		if sl.ok {
			s = append(s, sl.color.String())
		} else {
			s = append(s, "-")
		}
	}
	return "[" + strings.Join(s, " ") + "]"
}
