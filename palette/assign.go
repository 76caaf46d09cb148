package palette

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/diag"
)

var (
	// ErrPalettesExhausted is recorded when the color sets cannot be
	// packed into the allowed number of palettes
	ErrPalettesExhausted = errors.New("palette: palettes exhausted")
	// ErrTileColorsNotInAnyPalette is recorded when no supplied palette
	// holds every color of a tile
	ErrTileColorsNotInAnyPalette = errors.New("palette: tile colors not in any palette")
)

// Unassigned is the palette id of a color set that could not be placed.
const Unassigned = -1

// Assigner places color sets into palettes.
type Assigner struct {
	// Colors per palette, reserved slot included
	Capacity int
	// Maximum number of palettes
	Max int
	// Whether slot 0 of every palette is reserved for transparency
	Reserved bool
	// Describe names color set i in diagnostics, defaults to "tile i"
	Describe func(i int) string
}

func (a *Assigner) describe(i int) string {
	if a.Describe != nil {
		return a.Describe(i)
	}
	return fmt.Sprintf("tile %d", i)
}

func (a *Assigner) opaque() int {
	if a.Reserved {
		return a.Capacity - 1
	}
	return a.Capacity
}

// Auto packs the color sets into as few palettes as a greedy first fit
// decreasing pass manages. This is a variation of bin-packing where items
// may share elements, so the result is not optimal, but it is
// deterministic: sets are visited largest first, ties in visiting order
// and in palette choice are broken by the lowest index. Palettes only ever
// gain colors so earlier placements stay valid.
//
// It returns the palettes and, for each set, the id of its palette or
// Unassigned. Sets larger than a palette are left Unassigned without a
// diagnostic as the tile extractor reports those.
func (a *Assigner) Auto(sets []color.Set, d *diag.Diagnostics) ([]*Palette, []int) {
	ids := make([]int, len(sets))
	order := make([]int, len(sets))
	for i := range sets {
		ids[i] = Unassigned
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(sets[order[i]]) > len(sets[order[j]])
	})

	var palettes []*Palette
	var failed []int

	for _, i := range order {
		s := sets[i]
		if len(s) > a.opaque() {
			continue
		}

		best, bestNew := Unassigned, 0
		for j, p := range palettes {
			n := len(p.Missing(s))
			if n > p.Free() {
				continue
			}
			if best == Unassigned || n < bestNew {
				best, bestNew = j, n
			}
		}

		switch {
		case best != Unassigned:
			for _, c := range s {
				palettes[best].AddColor(c)
			}
			ids[i] = best
		case len(palettes) < a.Max:
			p := New(a.Capacity, a.Reserved)
			for _, c := range s {
				p.AddColor(c)
			}
			palettes = append(palettes, p)
			ids[i] = len(palettes) - 1
		default:
			failed = append(failed, i)
		}
	}

	if len(failed) > 0 {
		sort.Ints(failed)
		d.Errorf(ErrPalettesExhausted, "%d color set(s) do not fit in %d palette(s), starting with %s", len(failed), a.Max, a.describe(failed[0]))
	}

	return palettes, ids
}

// Match assigns each color set to the lowest-indexed supplied palette that
// holds all of its colors.
func (a *Assigner) Match(sets []color.Set, palettes []*Palette, d *diag.Diagnostics) []int {
	ids := make([]int, len(sets))

OUTER:
	for i, s := range sets {
		ids[i] = Unassigned
		if len(s) > a.opaque() {
			continue
		}
		for j, p := range palettes {
			if p.Contains(s) {
				ids[i] = j
				continue OUTER
			}
		}
		d.Errorf(ErrTileColorsNotInAnyPalette, "%s uses %v", a.describe(i), s)
	}

	return ids
}
