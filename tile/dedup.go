package tile

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Mode selects which tiles are merged.
type Mode int

const (
	// DedupNone keeps every tile
	DedupNone Mode = iota
	// DedupIdentical merges tiles with identical pixels
	DedupIdentical
	// DedupMirror also merges tiles that are mirror images of each other
	DedupMirror
)

// Occurrence places one extracted tile: it is the representative Index
// with Flip applied.
type Occurrence struct {
	Index int
	Flip  Flip
}

// Table is the result of deduplication.
type Table struct {
	// Representatives in the order they were first seen
	Tiles []*Tile
	// One entry per extracted tile, in extraction order
	Occurrences []Occurrence
}

type candidate struct {
	index int
	flip  Flip
}

type deduper struct {
	mode     Mode
	table    *Table
	hashes   map[uint64][]candidate
	variants [][len(Flips)][]byte
}

func (d *deduper) add(t *Tile) {
	index := len(d.table.Tiles)
	d.table.Tiles = append(d.table.Tiles, t)
	d.table.Occurrences = append(d.table.Occurrences, Occurrence{index, FlipNone})

	var v [len(Flips)][]byte
	for _, f := range Flips {
		if f != FlipNone && d.mode != DedupMirror {
			break
		}
		v[f] = canonical(Apply(t.Pix, t.size, f))
		h := xxhash.Sum64(v[f])
		d.hashes[h] = append(d.hashes[h], candidate{index, f})
	}
	d.variants = append(d.variants, v)
}

// find returns the earliest representative, and the transform, that
// reproduces b.
func (d *deduper) find(b []byte) (candidate, bool) {
	for _, c := range d.hashes[xxhash.Sum64(b)] {
		if bytes.Equal(d.variants[c.index][c.flip], b) {
			return c, true
		}
	}
	return candidate{}, false
}

// Dedup groups tiles according to mode. A tile equal to an earlier
// representative, possibly after a transform, is not stored again. When a
// representative matches under several transforms the first of Flips wins.
func Dedup(tiles []*Tile, mode Mode) *Table {
	d := deduper{
		mode:   mode,
		table:  &Table{Occurrences: make([]Occurrence, 0, len(tiles))},
		hashes: make(map[uint64][]candidate),
	}

	for _, t := range tiles {
		if mode == DedupNone {
			d.table.Tiles = append(d.table.Tiles, t)
			d.table.Occurrences = append(d.table.Occurrences, Occurrence{len(d.table.Tiles) - 1, FlipNone})
			continue
		}
		if c, ok := d.find(t.Bytes()); ok {
			d.table.Occurrences = append(d.table.Occurrences, Occurrence{c.index, c.flip})
			continue
		}
		d.add(t)
	}

	return d.table
}
