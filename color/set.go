package color

// Set is the distinct opaque colors used by a tile, in the order they
// were first seen.
type Set []CGB

// Add appends c unless it is already present or transparent.
func (s *Set) Add(c CGB) {
	if c.IsTransparent() || s.Contains(c) {
		return
	}
	*s = append(*s, c)
}

// Contains reports whether c is part of the set.
func (s Set) Contains(c CGB) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}
