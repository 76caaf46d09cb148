package gbgfx

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/bodgit/gbgfx/palette"
	"github.com/bodgit/gbgfx/tile"
)

// PalSpecType selects where palettes come from.
type PalSpecType int

const (
	// NoSpec computes palettes from the image
	NoSpec PalSpecType = iota
	// ExplicitSpec uses the palettes in Options.PalSpec
	ExplicitSpec
	// EmbeddedSpec uses the palette of the source image
	EmbeddedSpec
)

// Slice is the rectangle of the source image that is converted. The zero
// value selects the whole image.
type Slice struct {
	Left, Top     int
	Width, Height int
}

// Rect returns the slice as an image.Rectangle.
func (s Slice) Rect() image.Rectangle {
	return image.Rect(s.Left, s.Top, s.Left+s.Width, s.Top+s.Height)
}

func (s Slice) String() string {
	return fmt.Sprintf("%d,%d:%d,%d", s.Left, s.Top, s.Width, s.Height)
}

// Options configures a conversion, or a reverse conversion.
type Options struct {
	// Bits per pixel of the tile data, 1 or 2
	BitDepth int
	// Colors per palette, transparency slot included. Zero means 1 << BitDepth
	ColorsPerPalette int
	// Maximum number of palettes
	NbPalettes int
	// Edge length of a tile in pixels
	UnitSize int

	AllowDedup     bool
	AllowMirroring bool
	UseColorCurve  bool
	ColumnMajor    bool

	// Number of tiles dropped from the end of the tile data
	Trim int
	// Tile ID of the first tile of each bank
	BaseTileIDs [2]int
	// Number of tiles each bank can hold
	MaxNbTiles [2]int

	InputSlice Slice

	// Width of the reconstructed image in tiles
	Stride int

	PalSpecType PalSpecType
	PalSpec     palette.Spec
}

// NewOptions returns the default options.
func NewOptions() *Options {
	return &Options{
		BitDepth:   2,
		NbPalettes: 8,
		UnitSize:   tile.DefaultSize,
		MaxNbTiles: [2]int{tile.Unlimited, 0},
	}
}

// Validate applies derived defaults and rejects contradictory options.
func (o *Options) Validate() error {
	if o.BitDepth != 1 && o.BitDepth != 2 {
		return fmt.Errorf("gbgfx: bit depth must be 1 or 2, not %d", o.BitDepth)
	}
	if o.ColorsPerPalette == 0 {
		o.ColorsPerPalette = 1 << o.BitDepth
	}
	if o.ColorsPerPalette < 1 || o.ColorsPerPalette > 1<<o.BitDepth {
		return fmt.Errorf("gbgfx: %d bit tiles cannot use %d colors per palette", o.BitDepth, o.ColorsPerPalette)
	}
	if o.NbPalettes < 1 || o.NbPalettes > palette.MaxPalettes {
		return fmt.Errorf("gbgfx: palette count must be between 1 and %d", palette.MaxPalettes)
	}
	if o.UnitSize <= 0 || o.UnitSize%tile.DefaultSize != 0 {
		return fmt.Errorf("gbgfx: unit size must be a multiple of %d", tile.DefaultSize)
	}
	if o.AllowMirroring {
		o.AllowDedup = true
	}
	if o.Trim < 0 {
		return errors.New("gbgfx: trim count cannot be negative")
	}
	for bank, id := range o.BaseTileIDs {
		if id < 0 || id > 0xff {
			return fmt.Errorf("gbgfx: bank %d base tile ID must be below 256", bank)
		}
	}
	for bank, n := range o.MaxNbTiles {
		if n < 0 || (n > 256 && !(bank == 0 && n == tile.Unlimited)) {
			return fmt.Errorf("gbgfx: bank %d cannot contain more than 256 tiles", bank)
		}
	}
	if s := o.InputSlice; s != (Slice{}) {
		if s.Left < 0 || s.Top < 0 || s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("gbgfx: invalid input slice %s", s)
		}
	}
	if o.PalSpecType == ExplicitSpec && len(o.PalSpec) == 0 {
		return errors.New("gbgfx: explicit palette spec is empty")
	}
	return nil
}

func (o *Options) dedupMode() tile.Mode {
	switch {
	case o.AllowMirroring:
		return tile.DedupMirror
	case o.AllowDedup:
		return tile.DedupIdentical
	}
	return tile.DedupNone
}

// ParseNumber parses a non-negative number. Hexadecimal is written with a
// "$" or "0x" prefix and binary with "%" or "0b".
func ParseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	base, digits := 10, s
	switch {
	case strings.HasPrefix(s, "$"):
		base, digits = 16, s[1:]
	case strings.HasPrefix(s, "%"):
		base, digits = 2, s[1:]
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		base, digits = 16, s[2:]
	case len(s) > 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		base, digits = 2, s[2:]
	}
	n, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("gbgfx: invalid number %q", s)
	}
	return int(n), nil
}

// ParsePair parses "a" or "a,b". It returns how many numbers were given.
func ParsePair(s string) ([2]int, int, error) {
	var pair [2]int
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return pair, 0, fmt.Errorf("gbgfx: expected one or two numbers, not %q", s)
	}
	for i, p := range parts {
		n, err := ParseNumber(p)
		if err != nil {
			return pair, 0, err
		}
		pair[i] = n
	}
	return pair, len(parts), nil
}

// ParseSlice parses "left,top:width,height".
func ParseSlice(s string) (Slice, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return Slice{}, fmt.Errorf("gbgfx: input slice %q must be left,top:width,height", s)
	}
	pos, n1, err := ParsePair(s[:i])
	if err != nil {
		return Slice{}, err
	}
	size, n2, err := ParsePair(s[i+1:])
	if err != nil {
		return Slice{}, err
	}
	if n1 != 2 || n2 != 2 {
		return Slice{}, fmt.Errorf("gbgfx: input slice %q must be left,top:width,height", s)
	}
	if size[0] == 0 || size[1] == 0 {
		return Slice{}, errors.New("gbgfx: input slice width and height cannot be 0")
	}
	return Slice{pos[0], pos[1], size[0], size[1]}, nil
}
