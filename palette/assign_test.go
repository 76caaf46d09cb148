package palette

import (
	"errors"
	"testing"

	"github.com/bodgit/gbgfx/color"
	"github.com/bodgit/gbgfx/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorsOf(palettes []*Palette) [][]color.CGB {
	out := make([][]color.CGB, 0, len(palettes))
	for _, p := range palettes {
		out = append(out, p.Colors())
	}
	return out
}

func TestAutoOrderAndTieBreaks(t *testing.T) {
	sets := []color.Set{
		{1},          // smallest, visited sixth
		{2, 3},       // visited fourth
		{4, 5, 6},    // visited first, opens palette 0
		{7, 8, 9},    // visited second, opens palette 1
		{4, 5},       // visited fifth, palette 0 needs nothing
		{2},          // visited last, palette 3 needs nothing
		{10, 11, 12}, // visited third, opens palette 2
	}

	a := Assigner{Capacity: 4, Max: 8}
	d := diag.New()
	palettes, ids := a.Auto(sets, d)
	require.NoError(t, d.Err())

	// {2, 3} needs two new colors and palettes 0 to 2 only have one free
	// slot each; {1} needs one new color everywhere so palette 0 wins
	assert.Equal(t, [][]color.CGB{
		{4, 5, 6, 1},
		{7, 8, 9},
		{10, 11, 12},
		{2, 3},
	}, colorsOf(palettes))
	assert.Equal(t, []int{0, 3, 0, 1, 0, 3, 2}, ids)

	for i, s := range sets {
		assert.True(t, palettes[ids[i]].Contains(s), "set %d", i)
	}
}

func TestAutoFewestNewColorsWins(t *testing.T) {
	sets := []color.Set{
		{1, 2, 3},
		{4, 5, 6},
		{4}, // palette 0 has room but palette 1 needs nothing
	}

	a := Assigner{Capacity: 4, Max: 2}
	d := diag.New()
	palettes, ids := a.Auto(sets, d)
	require.NoError(t, d.Err())

	assert.Equal(t, [][]color.CGB{{1, 2, 3}, {4, 5, 6}}, colorsOf(palettes))
	assert.Equal(t, []int{0, 1, 1}, ids)

	// Equal cost, lowest index
	sets = append(sets, color.Set{7})
	d = diag.New()
	palettes, ids = a.Auto(sets, d)
	require.NoError(t, d.Err())
	assert.Equal(t, [][]color.CGB{{1, 2, 3, 7}, {4, 5, 6}}, colorsOf(palettes))
	assert.Equal(t, []int{0, 1, 1, 0}, ids)
}

func TestAutoReserved(t *testing.T) {
	sets := []color.Set{{1, 2, 3}, {}, {1}}

	a := Assigner{Capacity: 4, Max: 1, Reserved: true}
	d := diag.New()
	palettes, ids := a.Auto(sets, d)
	require.NoError(t, d.Err())

	require.Len(t, palettes, 1)
	assert.Equal(t, "[transparent $0001 $0002 $0003]", palettes[0].String())
	assert.Equal(t, []int{0, 0, 0}, ids)
}

func TestAutoOnlyTransparent(t *testing.T) {
	a := Assigner{Capacity: 4, Max: 1, Reserved: true}
	d := diag.New()
	palettes, ids := a.Auto([]color.Set{{}, {}}, d)
	require.NoError(t, d.Err())
	assert.Len(t, palettes, 1)
	assert.Equal(t, []int{0, 0}, ids)
}

func TestAutoPalettesExhausted(t *testing.T) {
	var sets []color.Set
	for i := 0; i < 5; i++ {
		base := color.CGB(i * 4)
		sets = append(sets, color.Set{base, base + 1, base + 2, base + 3})
	}

	a := Assigner{Capacity: 4, Max: 4}
	d := diag.New()
	palettes, ids := a.Auto(sets, d)

	assert.Len(t, palettes, 4)
	assert.Equal(t, []int{0, 1, 2, 3, Unassigned}, ids)
	assert.Equal(t, 1, d.Count(ErrPalettesExhausted))
	assert.Contains(t, d.Entries()[0].Err.Error(), "tile 4")
}

func TestAutoOversizedSetIsSkipped(t *testing.T) {
	a := Assigner{Capacity: 4, Max: 4, Reserved: true}
	d := diag.New()
	palettes, ids := a.Auto([]color.Set{{1, 2, 3, 4}, {1}}, d)
	assert.NoError(t, d.Err())
	assert.Len(t, palettes, 1)
	assert.Equal(t, []int{Unassigned, 0}, ids)
}

func TestMatch(t *testing.T) {
	a := New(4, false)
	a.AddColor(1)
	a.AddColor(2)
	b := New(4, false)
	b.AddColor(1)
	b.AddColor(2)
	b.AddColor(3)

	assigner := Assigner{
		Capacity: 4,
		Max:      2,
		Describe: func(i int) string { return "block " + string(rune('A'+i)) },
	}
	d := diag.New()
	ids := assigner.Match([]color.Set{{2, 1}, {3}, {4}, {}}, []*Palette{a, b}, d)

	assert.Equal(t, []int{0, 1, Unassigned, 0}, ids)
	assert.Equal(t, 1, d.Errors())
	assert.True(t, errors.Is(d.Entries()[0].Err, ErrTileColorsNotInAnyPalette))
	assert.Contains(t, d.Entries()[0].Err.Error(), "block C")
}
