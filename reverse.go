package gbgfx

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/palette"
	"github.com/bodgit/gbgfx/tile"
)

// ErrReverseIndexOutOfRange is returned when an artifact refers to a tile,
// palette or color that does not exist.
var ErrReverseIndexOutOfRange = errors.New("gbgfx: index out of range")

var errStride = errors.New("gbgfx: stride must be at least 1 tile")

// Shades of the palette used when no palette table is given, lightest
// first. Smaller palettes spread out over them so white and black are
// always kept.
var greys = []color.CGB{0x7fff, 0x56b5, 0x294a, 0x0000}

// Artifacts are the inputs of a reverse conversion. Only TileData is
// required.
type Artifacts struct {
	TileData []byte
	Tilemap  []byte
	Attrmap  []byte
	Palmap   []byte
	Palettes []byte
}

func outOfRange(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReverseIndexOutOfRange, fmt.Sprintf(format, a...))
}

func defaultPalette(capacity int) *palette.Palette {
	p := palette.New(capacity, false)
	if capacity == 1 {
		p.AddColor(greys[0])
		return p
	}
	last := len(greys) - 1
	for i := 0; i < capacity; i++ {
		p.AddColor(greys[i*last/(capacity-1)])
	}
	return p
}

// Reverse rebuilds an image from the artifacts of a conversion made with
// the same options. Tiles are laid out opts.Stride tiles wide.
func Reverse(a *Artifacts, opts *Options) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Stride < 1 {
		return nil, errStride
	}

	size := opts.UnitSize
	bpt := tile.BytesPerTile(size, opts.BitDepth)
	if len(a.TileData)%bpt != 0 {
		return nil, fmt.Errorf("gbgfx: tile data is not a multiple of %d bytes", bpt)
	}
	stored := len(a.TileData) / bpt
	total := stored + opts.Trim

	palettes := []*palette.Palette{defaultPalette(opts.ColorsPerPalette)}
	if a.Palettes != nil {
		t, err := palette.UnmarshalTable(a.Palettes, opts.ColorsPerPalette)
		if err != nil {
			return nil, err
		}
		palettes = t
	}

	// Representative of every map entry
	var reps []int
	if a.Tilemap == nil {
		reps = make([]int, total)
		for i := range reps {
			reps[i] = i
		}
	}
	n := total
	if a.Tilemap != nil {
		n = len(a.Tilemap)
	}
	if a.Attrmap != nil && len(a.Attrmap) != n {
		return nil, fmt.Errorf("gbgfx: attribute map has %d entries, expected %d", len(a.Attrmap), n)
	}
	if a.Palmap != nil && len(a.Palmap) != n {
		return nil, fmt.Errorf("gbgfx: palette map has %d entries, expected %d", len(a.Palmap), n)
	}

	w := opts.Stride
	h := (n + w - 1) / w
	m := image.NewNRGBA(image.Rect(0, 0, w*size, h*size))

	for i := 0; i < n; i++ {
		var attr byte
		if a.Attrmap != nil {
			attr = a.Attrmap[i]
		}
		bank := int(attr >> 3 & 1)
		flip := tile.Flip(attr >> 5 & 3)
		pal := int(attr & 7)
		if a.Palmap != nil {
			pal = int(a.Palmap[i])
		}

		var rep int
		if reps != nil {
			rep = reps[i]
		} else {
			index := (int(a.Tilemap[i]) - opts.BaseTileIDs[bank]) & 0xff
			if index >= opts.MaxNbTiles[bank] {
				return nil, outOfRange("entry %d refers to tile %d of bank %d which holds %d", i, index, bank, opts.MaxNbTiles[bank])
			}
			rep = index
			if bank == 1 {
				rep += opts.MaxNbTiles[0]
			}
		}
		if rep >= total {
			return nil, outOfRange("entry %d refers to tile %d, there are %d", i, rep, total)
		}
		if pal >= len(palettes) {
			return nil, outOfRange("entry %d refers to palette %d, there are %d", i, pal, len(palettes))
		}

		var idx []uint8
		if rep < stored {
			idx = tile.Unpack(a.TileData[rep*bpt:(rep+1)*bpt], size, opts.BitDepth)
		} else {
			idx = make([]uint8, size*size)
		}
		idx = tile.ApplyIndices(idx, size, flip)

		tx, ty := i%w, i/w
		if opts.ColumnMajor {
			tx, ty = i/h, i%h
		}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				c, ok := palettes[pal].At(int(idx[y*size+x]))
				if !ok {
					return nil, outOfRange("tile %d uses color %d of palette %d which is empty", rep, idx[y*size+x], pal)
				}
				m.SetNRGBA(tx*size+x, ty*size+y, c.Rgba(opts.UseColorCurve).NRGBA())
			}
		}
	}

	return m, nil
}
