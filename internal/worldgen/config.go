// Package worldgen provides the spatial model for procedural world
// synthesis: generation configuration, the west-to-east ecosystem bands,
// and the vertex/edge graph arena that the growth engines and
// post-processing passes operate on.
package worldgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Growth strategy names accepted by Config.Strategy.
const (
	StrategyDischarge = "discharge"
	StrategyFlow      = "flow"
)

// Weather synthesis modes accepted by Config.WeatherMode.
const (
	WeatherLocal  = "local"
	WeatherSmooth = "smooth"
)

// Config holds world generation parameters.
type Config struct {
	WidthKm  float64 `yaml:"width_km" json:"width_km"`  // World extent west to east
	HeightKm float64 `yaml:"height_km" json:"height_km"` // World extent north to south
	SpacingM float64 `yaml:"spacing_m" json:"spacing_m"` // Grid cell pitch in meters
	MarginM  float64 `yaml:"margin_m" json:"margin_m"`  // Dead border around the grid

	BranchingFactor float64 `yaml:"branching_factor" json:"branching_factor"` // [0,1], flow-growth fan-out
	DitherStrength  float64 `yaml:"dither_strength" json:"dither_strength"`  // [0,1], ecosystem boundary blending
	PureRatio       float64 `yaml:"pure_ratio" json:"pure_ratio"`       // [0,1], dither-free fraction of each band

	Seed        int64  `yaml:"seed" json:"seed"`
	MinVertices int    `yaml:"min_vertices" json:"min_vertices"` // 0 = derived from grid size
	Strategy    string `yaml:"strategy" json:"strategy"`
	WeatherMode string `yaml:"weather_mode" json:"weather_mode"`
}

// DefaultConfig returns the standard world parameters.
func DefaultConfig() Config {
	return Config{
		WidthKm:         14.5,
		HeightKm:        9,
		SpacingM:        500,
		MarginM:         250,
		BranchingFactor: 0.5,
		DitherStrength:  0.5,
		PureRatio:       0.6,
		Seed:            12345,
		Strategy:        StrategyFlow,
		WeatherMode:     WeatherLocal,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.WidthKm = 5
	cfg.HeightKm = 3.5
	cfg.Seed = 42
	return cfg
}

// LoadConfig reads a YAML config file, applying defaults for zero fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the pipeline cannot run on.
func (c Config) Validate() error {
	if c.WidthKm <= 0 || c.HeightKm <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %.1f x %.1f km", c.WidthKm, c.HeightKm)
	}
	if c.SpacingM <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %.0f m", c.SpacingM)
	}
	if c.MarginM < 0 {
		return fmt.Errorf("margin must be non-negative, got %.0f m", c.MarginM)
	}
	if c.GridCols() < 2 || c.GridRows() < 1 {
		return fmt.Errorf("grid too small: %d x %d cells", c.GridCols(), c.GridRows())
	}
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"branching_factor", c.BranchingFactor},
		{"dither_strength", c.DitherStrength},
		{"pure_ratio", c.PureRatio},
	} {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be in [0,1], got %.2f", r.name, r.value)
		}
	}
	switch c.Strategy {
	case StrategyDischarge, StrategyFlow:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.WeatherMode {
	case WeatherLocal, WeatherSmooth:
	default:
		return fmt.Errorf("unknown weather mode %q", c.WeatherMode)
	}
	return nil
}

// WidthM returns world width in meters.
func (c Config) WidthM() float64 { return c.WidthKm * 1000 }

// HeightM returns world height in meters.
func (c Config) HeightM() float64 { return c.HeightKm * 1000 }

// GridCols returns the number of grid columns fitting inside the margins.
func (c Config) GridCols() int {
	return int((c.WidthM()-2*c.MarginM)/c.SpacingM) + 1
}

// GridRows returns the number of grid rows fitting inside the margins.
func (c Config) GridRows() int {
	return int((c.HeightM()-2*c.MarginM)/c.SpacingM) + 1
}

// CenterRow returns the vertically centered grid row.
func (c Config) CenterRow() int {
	return c.GridRows() / 2
}

// CellX converts a grid column to a world X coordinate in meters.
func (c Config) CellX(col int) float64 {
	return c.MarginM + float64(col)*c.SpacingM
}

// CellY converts a grid row to a world Y coordinate in meters.
// Row 0 is the northern edge; Y grows southward.
func (c Config) CellY(row int) float64 {
	return c.MarginM + float64(row)*c.SpacingM
}

// TargetMinVertices returns the configured minimum vertex count, or a
// grid-derived default when unset.
func (c Config) TargetMinVertices() int {
	if c.MinVertices > 0 {
		return c.MinVertices
	}
	return c.GridCols() * c.GridRows() / 5
}
