package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blockwalk/internal/engine/model"
)

// BuilderConfig sizes the tile grid.
type BuilderConfig struct {
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	TileSize float32 `yaml:"tile_size"`

	// Cells within FlatRadius (Chebyshev distance) of the spawn cell are
	// forced to elevation zero. Negative disables flattening.
	FlatRadius int `yaml:"flat_radius"`

	// The spawn cell is where the character stands; see CellAt.
	SpawnX int `yaml:"-"`
	SpawnY int `yaml:"-"`
}

// DefaultBuilderConfig returns a 64×64 grid of 2-unit tiles with a flat
// 3×3 patch around the origin.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Width:      64,
		Depth:      64,
		TileSize:   2,
		FlatRadius: 1,
	}
}

// CellAt returns the cell whose tile origin is nearest to the world
// position (x, z).
func (c BuilderConfig) CellAt(x, z float32) (int, int) {
	return int(math.Round(float64(x / c.TileSize))), int(math.Round(float64(z / c.TileSize)))
}

// Placement is where one tile goes.
type Placement struct {
	X, Y      int
	Elevation float64
	Biome     Biome
	Transform mgl32.Mat4
}

// ModelAdder receives tile copies.
type ModelAdder interface {
	AddModelCopy(m *model.Model) *model.Model
}

// Builder turns a Field into tile placements.
type Builder struct {
	field *Field
	cfg   BuilderConfig
}

// NewBuilder creates a builder over field.
func NewBuilder(field *Field, cfg BuilderConfig) (*Builder, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, fmt.Errorf("terrain: grid size %dx%d", cfg.Width, cfg.Depth)
	}
	if cfg.TileSize <= 0 {
		return nil, fmt.Errorf("terrain: tile size %v", cfg.TileSize)
	}
	return &Builder{field: field, cfg: cfg}, nil
}

// Flat reports whether cell (x, y) is part of the flat ground under the spawn.
func (b *Builder) Flat(x, y int) bool {
	if b.cfg.FlatRadius < 0 {
		return false
	}
	return abs(x-b.cfg.SpawnX) <= b.cfg.FlatRadius && abs(y-b.cfg.SpawnY) <= b.cfg.FlatRadius
}

// Heights fills a Width×Depth grid with cell elevations, flat ground applied.
func (b *Builder) Heights() Grid[float64] {
	g := NewGrid[float64](b.cfg.Width, b.cfg.Depth)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if b.Flat(x, y) {
				continue
			}
			g.Set(x, y, b.field.Elevation(x, y))
		}
	}
	return g
}

// Placements returns one placement per cell in row order, starting at (0, 0).
// A tile sits at (x·TileSize, ceil(elevation)·TileSize, y·TileSize).
func (b *Builder) Placements() []Placement {
	heights := b.Heights()
	out := make([]Placement, 0, len(heights.Data))
	for y := 0; y < heights.H; y++ {
		for x := 0; x < heights.W; x++ {
			e := heights.At(x, y)
			level := float32(math.Ceil(e))
			out = append(out, Placement{
				X:         x,
				Y:         y,
				Elevation: e,
				Biome:     Classify(b.field.Normalize(e)),
				Transform: mgl32.Translate3D(
					float32(x)*b.cfg.TileSize,
					level*b.cfg.TileSize,
					float32(y)*b.cfg.TileSize,
				),
			})
		}
	}
	return out
}

// Populate positions tile at the first cell and adds a copy of it for every
// other cell. tile must already belong to the scene. It returns the tiles in
// placement order.
func (b *Builder) Populate(dst ModelAdder, tile *model.Model) []*model.Model {
	placements := b.Placements()
	tiles := make([]*model.Model, 0, len(placements))
	for i, p := range placements {
		m := tile
		if i > 0 {
			m = dst.AddModelCopy(tile)
		}
		m.SetTransform(p.Transform)
		tiles = append(tiles, m)
	}
	return tiles
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
