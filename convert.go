package gbgfx

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/diag"
	"github.com/bodgit/gbgfx/palette"
	"github.com/bodgit/gbgfx/tile"
	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

var errNoRoomForTransparency = errors.New("gbgfx: the image has transparent pixels but palettes only have one color")

// Result holds the encoded artifacts of a conversion.
type Result struct {
	TileData []byte
	Tilemap  []byte
	Attrmap  []byte
	Palmap   []byte
	Palettes []byte

	// Number of unique tiles before trimming
	NbTiles int
	// Number of palettes in the palette table
	NbPalettes int
	// Set if the result came from the cache
	Cached bool
}

// cacheKey hashes everything a conversion reads: the grid, the options
// and, for an embedded spec, the palette carried by the image.
func cacheKey(m image.Image, g *tile.Grid, opts *Options) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%+v", *opts)
	if p, ok := m.ColorModel().(stdcolor.Palette); ok && opts.PalSpecType == EmbeddedSpec {
		for _, c := range p {
			rgba := color.FromColor(c)
			h.Write([]byte{rgba.R, rgba.G, rgba.B, rgba.A})
		}
	}
	return fmt.Sprintf("%016x%016x", g.Sum64(), h.Sum64())
}

// embedded returns the image an embedded palette is read from. A palette
// carried by the image applies whatever the slice, otherwise only the
// converted pixels count.
func embedded(m image.Image, s Slice) image.Image {
	if _, ok := m.ColorModel().(stdcolor.Palette); ok || s == (Slice{}) {
		return m
	}
	return imaging.Crop(m, s.Rect().Add(m.Bounds().Min))
}

// Convert runs a conversion of m. Fatal problems are returned as an error.
// Problems with the image itself are recorded in the returned
// diag.Diagnostics; the Result is only fit for writing if it holds no
// errors.
func (c *Converter) Convert(m image.Image, opts *Options) (*Result, *diag.Diagnostics, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	g, err := tile.NewGrid(m, opts.InputSlice.Rect())
	if err != nil {
		return nil, nil, err
	}
	d := diag.New()

	key := cacheKey(m, g, opts)
	if c.cache != nil {
		r, err := c.cache.Find(key)
		if err != nil {
			return nil, nil, err
		}
		if r != nil {
			c.logger.Printf("Using cached result %s\n", key)
			return r, d, nil
		}
	}

	reserved := g.HasTransparency()
	if reserved && opts.ColorsPerPalette < 2 {
		return nil, nil, errNoRoomForTransparency
	}
	maxColors := opts.ColorsPerPalette
	if reserved {
		maxColors--
	}

	e := tile.Extractor{
		Size:        opts.UnitSize,
		ColumnMajor: opts.ColumnMajor,
		Curve:       opts.UseColorCurve,
		MaxColors:   maxColors,
	}
	tiles, err := e.Extract(g, d)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Printf("Extracted %d tiles from %dx%d pixels\n", len(tiles), g.Width, g.Height)

	table := tile.Dedup(tiles, opts.dedupMode())
	c.logger.Printf("%d unique tiles\n", len(table.Tiles))

	palettes, ids, err := c.assign(m, table, reserved, opts, d)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Printf("%d palettes\n", len(palettes))

	enc := tile.Encoder{
		BitDepth: opts.BitDepth,
		BaseIDs:  opts.BaseTileIDs,
		MaxTiles: opts.MaxNbTiles,
		Trim:     opts.Trim,
	}
	out, err := enc.Encode(table, palettes, ids, d)
	if err != nil {
		return nil, nil, err
	}
	if out.Banks[1] > 0 {
		c.logger.Printf("%d tiles in bank 0, %d tiles in bank 1\n", out.Banks[0], out.Banks[1])
	}

	pal, err := palette.Table(palettes).MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	r := &Result{
		TileData:   out.TileData,
		Tilemap:    out.Tilemap,
		Attrmap:    out.Attrmap,
		Palmap:     out.Palmap,
		Palettes:   pal,
		NbTiles:    len(table.Tiles),
		NbPalettes: len(palettes),
	}

	if c.cache != nil && d.Errors() == 0 {
		if err := c.cache.Store(key, r); err != nil {
			return nil, nil, err
		}
	}

	return r, d, nil
}

func (c *Converter) assign(m image.Image, table *tile.Table, reserved bool, opts *Options, d *diag.Diagnostics) ([]*palette.Palette, []int, error) {
	sets := make([]color.Set, len(table.Tiles))
	for i, t := range table.Tiles {
		sets[i] = t.Colors
	}

	a := palette.Assigner{
		Capacity: opts.ColorsPerPalette,
		Max:      opts.NbPalettes,
		Reserved: reserved,
		Describe: func(i int) string {
			t := table.Tiles[i]
			return fmt.Sprintf("tile at (%d, %d)", t.X, t.Y)
		},
	}

	var spec palette.Spec
	switch opts.PalSpecType {
	case NoSpec:
		palettes, ids := a.Auto(sets, d)
		return palettes, ids, nil
	case ExplicitSpec:
		spec = opts.PalSpec
	case EmbeddedSpec:
		size := opts.ColorsPerPalette
		if reserved {
			size--
		}
		var err error
		if spec, err = palette.FromImage(embedded(m, opts.InputSlice), size, opts.NbPalettes); err != nil {
			return nil, nil, err
		}
	}

	if len(spec) > opts.NbPalettes {
		return nil, nil, fmt.Errorf("gbgfx: %d palettes supplied, at most %d allowed", len(spec), opts.NbPalettes)
	}
	palettes, err := spec.Palettes(opts.ColorsPerPalette, reserved, opts.UseColorCurve)
	if err != nil {
		return nil, nil, err
	}
	return palettes, a.Match(sets, palettes, d), nil
}

// Palettes builds the palette table of an explicit palette spec without
// converting an image. No slot is reserved for transparency.
func (c *Converter) Palettes(opts *Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.PalSpecType != ExplicitSpec {
		return nil, errors.New("gbgfx: palettes can only be generated from an explicit spec")
	}
	if len(opts.PalSpec) > opts.NbPalettes {
		return nil, fmt.Errorf("gbgfx: %d palettes supplied, at most %d allowed", len(opts.PalSpec), opts.NbPalettes)
	}

	palettes, err := opts.PalSpec.Palettes(opts.ColorsPerPalette, false, opts.UseColorCurve)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("%d palettes\n", len(palettes))

	b, err := palette.Table(palettes).MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &Result{Palettes: b, NbPalettes: len(palettes)}, nil
}
