package palette

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	imgcolor "image/color"
	"image/draw"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/gbgfx/color"
	"github.com/ericpauley/go-quantize/quantize"
)

var (
	errNoColors    = errors.New("palette: spec contains no colors")
	errTooMany     = errors.New("palette: spec contains more than 256 palettes")
	errUnknownFmt  = errors.New("palette: unknown palette file format")
	errTooColorful = errors.New("palette: image has too many colors for an embedded palette")
)

// Spec is a list of palettes supplied by the user rather than computed from
// the image.
type Spec [][]color.Rgba

// ParseHexColor parses #rgb or #rrggbb, the leading # being optional.
func ParseHexColor(input string) (color.Rgba, error) {
	input = strings.TrimPrefix(strings.TrimSpace(input), "#")

	var nums [3]uint8
	switch len(input) {
	case 6:
		for i := range nums {
			v, err := strconv.ParseUint(input[i*2:i*2+2], 16, 8)
			if err != nil {
				return color.Rgba{}, fmt.Errorf("palette: invalid hex color %q: %w", input, err)
			}
			nums[i] = uint8(v)
		}
	case 3:
		for i := range nums {
			v, err := strconv.ParseUint(input[i:i+1], 16, 8)
			if err != nil {
				return color.Rgba{}, fmt.Errorf("palette: invalid hex color %q: %w", input, err)
			}
			nums[i] = uint8(v) * 0x11
		}
	default:
		return color.Rgba{}, fmt.Errorf("palette: invalid length for hex color %q", input)
	}

	return color.Rgba{R: nums[0], G: nums[1], B: nums[2], A: 0xff}, nil
}

// ParseInline parses palettes written as "#rgb,#rrggbb;#rrggbb,...":
// colors are separated by commas and palettes by semicolons.
func ParseInline(input string) (Spec, error) {
	var spec Spec
	for _, pal := range strings.Split(input, ";") {
		if strings.TrimSpace(pal) == "" {
			continue
		}
		var colors []color.Rgba
		for _, str := range strings.Split(pal, ",") {
			c, err := ParseHexColor(str)
			if err != nil {
				return nil, err
			}
			colors = append(colors, c)
		}
		if len(colors) > MaxColors {
			return nil, fmt.Errorf("palette: palette %d has %d colors, at most %d allowed", len(spec), len(colors), MaxColors)
		}
		spec = append(spec, colors)
	}
	return spec.check()
}

func (s Spec) check() (Spec, error) {
	switch {
	case len(s) == 0:
		return nil, errNoColors
	case len(s) > MaxPalettes:
		return nil, errTooMany
	}
	return s, nil
}

func chunk(colors []color.Rgba, size int) Spec {
	var spec Spec
	for len(colors) > 0 {
		n := size
		if n > len(colors) {
			n = len(colors)
		}
		spec = append(spec, colors[:n:n])
		colors = colors[n:]
	}
	return spec
}

// ParseFile reads a palette file. The format is taken from a "fmt:" prefix
// of the argument or else from the file extension:
//
//	hex  one hex color per line, grouped into palettes of size colors
//	gbc  a palette table as written by Table.MarshalBinary with size slots
//	     per palette, decoded with the given color curve setting
func ParseFile(arg string, size int, curve bool) (Spec, error) {
	format, path := "", arg
	if i := strings.IndexByte(arg, ':'); i > 0 && filepath.VolumeName(arg) == "" {
		format, path = strings.ToLower(arg[:i]), arg[i+1:]
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".hex":
			format = "hex"
		case ".pal":
			format = "gbc"
		}
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case "hex":
		return parseHex(b, size)
	case "gbc":
		return parseGBC(b, size, curve)
	default:
		return nil, errUnknownFmt
	}
}

func parseHex(b []byte, size int) (Spec, error) {
	var colors []color.Rgba
	s := bufio.NewScanner(bytes.NewReader(b))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		c, err := ParseHexColor(line)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return chunk(colors, size).check()
}

func parseGBC(b []byte, size int, curve bool) (Spec, error) {
	t, err := UnmarshalTable(b, size)
	if err != nil {
		return nil, err
	}
	spec := make(Spec, 0, len(t))
	for _, p := range t {
		colors := make([]color.Rgba, 0, size)
		for _, c := range p.Colors() {
			colors = append(colors, c.Rgba(curve))
		}
		spec = append(spec, colors)
	}
	return spec.check()
}

// FromImage returns the palette embedded in m, grouped into palettes of
// size colors. Transparent entries are skipped, they are covered by the
// reserved slot.
//
// Images without a color model of their own get one derived with a median
// cut quantizer. This is only done when every opaque color of the image
// fits in max palettes, so the derived palette is exact.
func FromImage(m image.Image, size, max int) (Spec, error) {
	var src imgcolor.Palette
	if p, ok := m.ColorModel().(imgcolor.Palette); ok {
		src = p
	} else {
		var err error
		if src, err = derive(m, size*max); err != nil {
			return nil, err
		}
	}

	colors := make([]color.Rgba, 0, len(src))
	for _, c := range src {
		if rgba := color.FromColor(c); !rgba.IsTransparent() {
			colors = append(colors, rgba)
		}
	}
	return chunk(colors, size).check()
}

func derive(m image.Image, limit int) (imgcolor.Palette, error) {
	b := m.Bounds()

	// Distinct opaque colors in order of first appearance
	var order []color.Rgba
	seen := make(map[color.Rgba]struct{})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.FromColor(m.At(x, y))
			if c.IsTransparent() {
				continue
			}
			c.A = 0xff
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				order = append(order, c)
			}
		}
	}
	if len(order) == 0 {
		return nil, errNoColors
	}
	if len(order) > limit {
		return nil, errTooColorful
	}

	// Quantize an opaque copy so transparent pixels do not claim a box
	dup := image.NewNRGBA(b)
	draw.Draw(dup, b, image.NewUniform(order[0]), b.Min, draw.Src)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := color.FromColor(m.At(x, y)); !c.IsTransparent() {
				c.A = 0xff
				dup.Set(x, y, c)
			}
		}
	}

	q := quantize.MedianCutQuantizer{}
	quantized := q.Quantize(make(imgcolor.Palette, 0, len(order)), dup)

	got := make(map[color.Rgba]struct{}, len(quantized))
	for _, c := range quantized {
		got[color.FromColor(c)] = struct{}{}
	}

	p := make(imgcolor.Palette, 0, len(order))
	for _, c := range order {
		if _, ok := got[c]; !ok {
			return nil, errTooColorful
		}
		p = append(p, c)
	}
	return p, nil
}

// Palettes converts s into palettes of the given capacity. Every
// palette must fit the opaque slots available.
func (s Spec) Palettes(capacity int, reserved, curve bool) ([]*Palette, error) {
	opaque := capacity
	if reserved {
		opaque--
	}

	palettes := make([]*Palette, 0, len(s))
	for i, colors := range s {
		p := New(capacity, reserved)
		var set color.Set
		for _, c := range colors {
			set.Add(c.CGB(curve))
		}
		if len(set) > opaque {
			return nil, fmt.Errorf("palette: palette %d has %d colors, only %d fit", i, len(set), opaque)
		}
		for _, c := range set {
			p.AddColor(c)
		}
		palettes = append(palettes, p)
	}
	return palettes, nil
}
