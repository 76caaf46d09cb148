package tile

import (
	"encoding/binary"
	"errors"
	"image"

	"github.com/bodgit/gbgfx/color"
	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

var errOutside = errors.New("tile: slice is outside the image")

// Grid is the part of the source image being converted, normalized to
// non-premultiplied truecolor.
type Grid struct {
	Width, Height int
	pix           []color.Rgba
}

// NewGrid copies the pixels of m inside r, relative to the top-left corner
// of m. An empty r selects the whole image.
func NewGrid(m image.Image, r image.Rectangle) (*Grid, error) {
	b := m.Bounds()

	var n *image.NRGBA
	if r.Empty() {
		n = imaging.Clone(m)
	} else {
		r = r.Add(b.Min)
		if !r.In(b) {
			return nil, errOutside
		}
		n = imaging.Crop(m, r)
	}

	g := &Grid{
		Width:  n.Rect.Dx(),
		Height: n.Rect.Dy(),
		pix:    make([]color.Rgba, n.Rect.Dx()*n.Rect.Dy()),
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := n.PixOffset(n.Rect.Min.X+x, n.Rect.Min.Y+y)
			g.pix[y*g.Width+x] = color.Rgba{R: n.Pix[i], G: n.Pix[i+1], B: n.Pix[i+2], A: n.Pix[i+3]}
		}
	}
	return g, nil
}

// At returns the color of the pixel at (x, y).
func (g *Grid) At(x, y int) color.Rgba {
	return g.pix[y*g.Width+x]
}

// Sum64 returns a hash of the dimensions and pixels of the grid.
func (g *Grid) Sum64() uint64 {
	b := make([]byte, 8, 8+len(g.pix)*4)
	binary.LittleEndian.PutUint32(b, uint32(g.Width))
	binary.LittleEndian.PutUint32(b[4:], uint32(g.Height))
	for _, c := range g.pix {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return xxhash.Sum64(b)
}

// HasTransparency reports whether any pixel is transparent.
func (g *Grid) HasTransparency() bool {
	for _, c := range g.pix {
		if c.IsTransparent() {
			return true
		}
	}
	return false
}

// Blocks returns the top-left corner of every size by size block in the
// order they are visited: left to right then top to bottom, or top to
// bottom then left to right if columnMajor is set.
func (g *Grid) Blocks(size int, columnMajor bool) []image.Point {
	w, h := g.Width/size, g.Height/size
	points := make([]image.Point, 0, w*h)
	if columnMajor {
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				points = append(points, image.Pt(x*size, y*size))
			}
		}
		return points
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			points = append(points, image.Pt(x*size, y*size))
		}
	}
	return points
}
