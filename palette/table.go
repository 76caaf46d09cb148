package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/gbgfx/color"
)

// Written in place of an empty slot. Bit 15 is set so it can never be
// mistaken for an opaque color and it differs from color.Transparent.
const emptySlot = 0xffff

var (
	errBadLength = errors.New("palette: table length is not a multiple of the palette size")
	errBadColor  = errors.New("palette: invalid color in table")
	errGap       = errors.New("palette: color after an empty slot")
)

// Table is the ordered list of palettes written alongside the tile data.
// It implements the encoding.BinaryMarshaler interface; use
// UnmarshalTable to decode one as the palette size is not stored.
type Table []*Palette

// MarshalBinary encodes every slot of every palette as a little-endian
// 16-bit color.
func (t Table) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	for _, p := range t {
		for _, s := range p.slots {
			v := uint16(emptySlot)
			if s.ok {
				v = uint16(s.color)
			}
			if err := binary.Write(b, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
		}
	}
	return b.Bytes(), nil
}

// UnmarshalTable decodes a table of palettes holding capacity colors each.
// A palette whose first slot is color.Transparent is treated as having the
// transparency slot reserved.
func UnmarshalTable(b []byte, capacity int) (Table, error) {
	if capacity < 1 || capacity > MaxColors {
		return nil, fmt.Errorf("palette: invalid capacity %d", capacity)
	}
	if len(b)%(capacity*2) != 0 {
		return nil, errBadLength
	}

	r := bytes.NewReader(b)
	t := make(Table, 0, len(b)/(capacity*2))
	for r.Len() > 0 {
		values := make([]uint16, capacity)
		if err := binary.Read(r, binary.LittleEndian, values); err != nil {
			return nil, err
		}

		reserved := capacity > 1 && color.CGB(values[0]).IsTransparent()
		p := New(capacity, reserved)
		gap := false
		for i := p.first(); i < capacity; i++ {
			c := color.CGB(values[i])
			switch {
			case values[i] == emptySlot:
				gap = true
			case c.IsTransparent() || !c.Valid():
				return nil, errBadColor
			case gap:
				return nil, errGap
			default:
				// Slots are kept as is, hand-made tables may repeat a color
				p.slots[i] = slot{c, true}
			}
		}
		t = append(t, p)
	}
	return t, nil
}
