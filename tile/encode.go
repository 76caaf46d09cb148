package tile

import (
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/diag"
	"github.com/bodgit/gbgfx/palette"
)

// Unlimited is the default tile count of bank 0.
const Unlimited = math.MaxUint16

// Number of distinct one byte tile IDs in a bank.
const bankIDs = 256

var (
	// ErrBankCapacityExceeded is recorded when there are more unique tiles
	// than both banks can hold, or than a bank has tile IDs for
	ErrBankCapacityExceeded = errors.New("tile: bank capacity exceeded")
	// ErrTrimTooLarge is recorded when more tiles are trimmed than exist
	ErrTrimTooLarge = errors.New("tile: trimming more tiles than exist")

	errBitDepth = errors.New("tile: bit depth must be 1 or 2")
)

// Attribute map bits.
const (
	attrPalette = 0x07
	attrBank    = 1 << 3
	attrFlip    = 5
)

// Output is the encoded form of a deduplicated tile table.
type Output struct {
	TileData []byte
	Tilemap  []byte
	Attrmap  []byte
	Palmap   []byte
	// Number of unique tiles placed in each bank
	Banks [2]int
}

// Encoder turns a deduplicated tile table into binary artifacts.
type Encoder struct {
	BitDepth int
	// Tile ID of the first tile of each bank
	BaseIDs [2]int
	// Number of tiles each bank can hold
	MaxTiles [2]int
	// Number of tiles dropped from the end of the tile data
	Trim int
}

// bank returns the bank and in-bank index of representative k.
func (e *Encoder) bank(k int) (int, int) {
	if k < e.MaxTiles[0] {
		return 0, k
	}
	return 1, k - e.MaxTiles[0]
}

// Encode packs t. ids holds the palette of every representative, as
// returned by palette.Assigner; representatives without a palette are
// encoded as if every pixel used index 0.
func (e *Encoder) Encode(t *Table, palettes []*palette.Palette, ids []int, d *diag.Diagnostics) (*Output, error) {
	if e.BitDepth != 1 && e.BitDepth != 2 {
		return nil, errBitDepth
	}
	if len(ids) != len(t.Tiles) {
		return nil, fmt.Errorf("tile: %d palette ids for %d tiles", len(ids), len(t.Tiles))
	}

	out := &Output{
		Tilemap: make([]byte, 0, len(t.Occurrences)),
		Attrmap: make([]byte, 0, len(t.Occurrences)),
		Palmap:  make([]byte, 0, len(t.Occurrences)),
	}

	e.checkBanks(len(t.Tiles), d)

	keep := len(t.Tiles) - e.Trim
	if keep < 0 {
		d.Errorf(ErrTrimTooLarge, "trimming %d tiles out of %d", e.Trim, len(t.Tiles))
		keep = 0
	}

	for k, rep := range t.Tiles {
		b, _ := e.bank(k)
		out.Banks[b]++
		if k >= keep {
			continue
		}
		var p *palette.Palette
		if ids[k] != palette.Unassigned {
			p = palettes[ids[k]]
		}
		out.TileData = append(out.TileData, Pack(indices(rep.Pix, p), rep.size, e.BitDepth)...)
	}

	for _, o := range t.Occurrences {
		b, i := e.bank(o.Index)
		out.Tilemap = append(out.Tilemap, byte(e.BaseIDs[b]+i))

		id := ids[o.Index]
		if id == palette.Unassigned {
			id = 0
		}
		attr := byte(id)&attrPalette | byte(o.Flip)<<attrFlip
		if b == 1 {
			attr |= attrBank
		}
		out.Attrmap = append(out.Attrmap, attr)
		out.Palmap = append(out.Palmap, byte(id))
	}

	return out, nil
}

// checkBanks records at most one ErrBankCapacityExceeded for n unique
// tiles.
func (e *Encoder) checkBanks(n int, d *diag.Diagnostics) {
	if limit := e.MaxTiles[0] + e.MaxTiles[1]; n > limit {
		d.Errorf(ErrBankCapacityExceeded, "%d unique tiles, the banks can hold %d", n, limit)
		return
	}
	inBank := [2]int{n, 0}
	if n > e.MaxTiles[0] {
		inBank = [2]int{e.MaxTiles[0], n - e.MaxTiles[0]}
	}
	for b, k := range inBank {
		if k > bankIDs {
			d.Errorf(ErrBankCapacityExceeded, "%d unique tiles in bank %d, only %d tile IDs exist", k, b, bankIDs)
			return
		}
	}
}

func indices(pix []color.CGB, p *palette.Palette) []uint8 {
	idx := make([]uint8, len(pix))
	if p == nil {
		return idx
	}
	for i, c := range pix {
		idx[i] = p.IndexOf(c)
	}
	return idx
}

// Pack encodes a square of size by size palette indices in planar format.
func Pack(idx []uint8, size, bitDepth int) []byte {
	b := make([]byte, 0, BytesPerTile(size, bitDepth))
	for y := 0; y < size; y++ {
		for g := 0; g < size; g += groupWidth {
			row := idx[y*size+g : y*size+g+groupWidth]
			for plane := 0; plane < bitDepth; plane++ {
				var v byte
				for x, i := range row {
					v |= (i >> plane & 1) << (7 - x)
				}
				b = append(b, v)
			}
		}
	}
	return b
}

// Unpack is the inverse of Pack. b must hold exactly one tile.
func Unpack(b []byte, size, bitDepth int) []uint8 {
	idx := make([]uint8, size*size)
	n := 0
	for y := 0; y < size; y++ {
		for g := 0; g < size; g += groupWidth {
			for plane := 0; plane < bitDepth; plane++ {
				v := b[n]
				n++
				for x := 0; x < groupWidth; x++ {
					idx[y*size+g+x] |= (v >> (7 - x) & 1) << plane
				}
			}
		}
	}
	return idx
}
