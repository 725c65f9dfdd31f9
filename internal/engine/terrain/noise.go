package terrain

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"
)

// NoiseFunc returns a coherent noise value in [-1, 1] for a 2D point.
type NoiseFunc func(x, y float64) float64

// OpenSimplex returns seeded OpenSimplex noise.
func OpenSimplex(seed int64) NoiseFunc {
	return opensimplex.New(seed).Eval2
}

// octaves are the frequency multipliers and weights summed per sample.
var octaves = [...]struct{ freq, weight float64 }{
	{1, 1},
	{2, 0.5},
	{4, 0.25},
}

// FieldConfig maps grid cells to noise space and noise to elevation.
type FieldConfig struct {
	CellScale  float64 `yaml:"cell_scale"`
	CellOffset float64 `yaml:"cell_offset"`
	Frequency  float64 `yaml:"frequency"`
	Amplitude  float64 `yaml:"amplitude"`
	Bias       float64 `yaml:"bias"`
}

// DefaultFieldConfig returns the stock elevation mapping.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		CellScale:  0.2,
		CellOffset: 0.5,
		Frequency:  0.01,
		Amplitude:  32,
		Bias:       -6,
	}
}

// Sample is the elevation and biome of one cell.
type Sample struct {
	Elevation float64
	Biome     Biome
}

// Field is a pure function from grid cell to Sample.
type Field struct {
	noise NoiseFunc
	cfg   FieldConfig
}

// NewField wraps noise with the given mapping.
func NewField(noise NoiseFunc, cfg FieldConfig) (*Field, error) {
	if noise == nil {
		return nil, fmt.Errorf("terrain: nil noise")
	}
	if cfg.Amplitude == 0 {
		return nil, fmt.Errorf("terrain: zero amplitude")
	}
	return &Field{noise: noise, cfg: cfg}, nil
}

// Config returns the field mapping.
func (f *Field) Config() FieldConfig { return f.cfg }

// Elevation returns the elevation of cell (x, y): three octaves of noise,
// weighted 1, 0.5 and 0.25, averaged, then scaled by Amplitude and offset by Bias.
func (f *Field) Elevation(x, y int) float64 {
	nx := float64(x)*f.cfg.CellScale + f.cfg.CellOffset
	ny := float64(y)*f.cfg.CellScale + f.cfg.CellOffset

	var sum, total float64
	for _, o := range octaves {
		k := o.freq * f.cfg.Frequency
		sum += o.weight * f.noise(k*nx, k*ny)
		total += o.weight
	}
	return sum/total*f.cfg.Amplitude + f.cfg.Bias
}

// Normalize undoes Amplitude and Bias, recovering the averaged noise value.
func (f *Field) Normalize(elevation float64) float64 {
	return (elevation - f.cfg.Bias) / f.cfg.Amplitude
}

// Sample returns the elevation and biome of cell (x, y).
func (f *Field) Sample(x, y int) Sample {
	e := f.Elevation(x, y)
	return Sample{Elevation: e, Biome: Classify(f.Normalize(e))}
}

// FillHeights writes the elevation of every cell of dst.
func (f *Field) FillHeights(dst Grid[float64]) error {
	if err := dst.check(); err != nil {
		return err
	}
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			dst.Set(x, y, f.Elevation(x, y))
		}
	}
	return nil
}

// FillBiomes classifies every cell of heights into dst.
func (f *Field) FillBiomes(heights Grid[float64], dst Grid[Biome]) error {
	if err := heights.check(); err != nil {
		return err
	}
	if err := dst.check(); err != nil {
		return err
	}
	if dst.W != heights.W || dst.H != heights.H {
		return fmt.Errorf("terrain: biome grid %dx%d does not match heights %dx%d", dst.W, dst.H, heights.W, heights.H)
	}
	for i, h := range heights.Data {
		dst.Data[i] = Classify(f.Normalize(h))
	}
	return nil
}
