package tile

import (
	"errors"
	"fmt"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/diag"
)

var (
	// ErrTooManyColors is recorded for every tile using more opaque colors
	// than a palette can hold
	ErrTooManyColors = errors.New("tile: too many colors in tile")
	// ErrSemiTransparent is recorded once for every distinct color that is
	// neither transparent nor opaque
	ErrSemiTransparent = errors.New("tile: semi-transparent color")

	errBadSize = errors.New("tile: tile size must be a positive multiple of 8")
)

// Extractor cuts a Grid into tiles.
type Extractor struct {
	// Edge length of a tile, DefaultSize if zero
	Size int
	// Visit tiles column by column
	ColumnMajor bool
	// Reduce colors through the color curve
	Curve bool
	// Opaque colors allowed in a single tile
	MaxColors int
}

func (e *Extractor) size() int {
	if e.Size == 0 {
		return DefaultSize
	}
	return e.Size
}

// Extract returns every tile of g in visiting order. The dimensions of g
// must be a multiple of the tile size; anything else is fatal. Tiles with
// too many colors are recorded in d but still returned.
func (e *Extractor) Extract(g *Grid, d *diag.Diagnostics) ([]*Tile, error) {
	size := e.size()
	if size <= 0 || size%groupWidth != 0 {
		return nil, errBadSize
	}
	if g.Width%size != 0 || g.Height%size != 0 {
		return nil, fmt.Errorf("tile: image size %dx%d is not a multiple of %d", g.Width, g.Height, size)
	}

	semi := make(map[color.Rgba]struct{})

	blocks := g.Blocks(size, e.ColumnMajor)
	tiles := make([]*Tile, 0, len(blocks))
	for _, pt := range blocks {
		t := &Tile{
			X:    pt.X,
			Y:    pt.Y,
			Pix:  make([]color.CGB, 0, size*size),
			size: size,
		}
		for y := pt.Y; y < pt.Y+size; y++ {
			for x := pt.X; x < pt.X+size; x++ {
				c := g.At(x, y)
				if !c.IsTransparent() && !c.IsOpaque() {
					if _, ok := semi[c]; !ok {
						semi[c] = struct{}{}
						d.Errorf(ErrSemiTransparent, "%s with alpha %d at (%d, %d)", c.CSS(), c.A, x, y)
					}
				}
				cgb := c.CGB(e.Curve)
				t.Pix = append(t.Pix, cgb)
				t.Colors.Add(cgb)
			}
		}
		if len(t.Colors) > e.MaxColors {
			d.Errorf(ErrTooManyColors, "tile at (%d, %d) has %d colors, more than %d", t.X, t.Y, len(t.Colors), e.MaxColors)
		}
		tiles = append(tiles, t)
	}

	return tiles, nil
}
