// Package terrain samples procedural elevation over a grid and places one
// ground-tile model per cell.
package terrain

import "fmt"

// Grid is a caller-owned W×H buffer stored row by row.
type Grid[T any] struct {
	W, H int
	Data []T
}

// NewGrid allocates a w×h grid.
func NewGrid[T any](w, h int) Grid[T] {
	return Grid[T]{W: w, H: h, Data: make([]T, w*h)}
}

// Index returns the offset of cell (x, y) in Data.
func (g Grid[T]) Index(x, y int) int { return y*g.W + x }

// At returns cell (x, y).
func (g Grid[T]) At(x, y int) T { return g.Data[g.Index(x, y)] }

// Set stores v at cell (x, y).
func (g Grid[T]) Set(x, y int, v T) { g.Data[g.Index(x, y)] = v }

func (g Grid[T]) check() error {
	if g.W <= 0 || g.H <= 0 {
		return fmt.Errorf("terrain: grid size %dx%d", g.W, g.H)
	}
	if len(g.Data) != g.W*g.H {
		return fmt.Errorf("terrain: grid %dx%d has %d cells", g.W, g.H, len(g.Data))
	}
	return nil
}

// Biome is a cosmetic band of normalized elevation, ordered low to high.
type Biome int

const (
	Water Biome = iota
	Beach
	Forest
	Jungle
	Savannah
	Desert
	Snow
)

var biomeNames = [...]string{"water", "beach", "forest", "jungle", "savannah", "desert", "snow"}

func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return fmt.Sprintf("Biome(%d)", int(b))
	}
	return biomeNames[b]
}

// biomeCeilings holds the exclusive upper bound of each band below Snow.
var biomeCeilings = [...]float64{0.1, 0.2, 0.3, 0.5, 0.7, 0.9}

// Classify maps a normalized elevation to its biome. Every input, including
// values outside [0, 1] and NaN, falls in exactly one band.
func Classify(normalized float64) Biome {
	for i, ceil := range biomeCeilings {
		if normalized < ceil {
			return Biome(i)
		}
	}
	return Snow
}
