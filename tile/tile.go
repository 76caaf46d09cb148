/*
Package tile implements cutting an image into tiles, merging duplicate
tiles and encoding them in the planar format of the Game Boy.

Tiles are 8 by 8 pixels by default. Each row of 8 pixels is stored as one
byte per bit plane, low plane first, with the leftmost pixel in bit 7; a
2bpp tile therefore takes 16 bytes and a 1bpp tile 8 bytes. Larger tile
sizes must be a multiple of 8 and store each row as consecutive groups of
8 pixels.
*/
package tile

import (
	"encoding/binary"

	"github.com/bodgit/gbgfx/color"
)

const (
	// DefaultSize is the edge length of a hardware tile
	DefaultSize = 8
	groupWidth  = 8
)

// Tile is a square block of the source image.
type Tile struct {
	// Position of the top-left pixel, relative to the input slice
	X, Y int
	// Distinct opaque colors in order of appearance
	Colors color.Set
	// Color of every pixel, row by row
	Pix []color.CGB

	size int
}

// Size returns the edge length of the tile.
func (t *Tile) Size() int {
	return t.size
}

// Bytes returns the canonical form of the tile, every pixel color as a
// little-endian 16-bit value.
func (t *Tile) Bytes() []byte {
	return canonical(t.Pix)
}

func canonical(pix []color.CGB) []byte {
	b := make([]byte, len(pix)*2)
	for i, c := range pix {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(c))
	}
	return b
}

// BytesPerTile returns the size of one encoded tile.
func BytesPerTile(size, bitDepth int) int {
	return size * size * bitDepth / 8
}
