package worldgen

// Ecosystem labels a vertex with its biome. The progression from the
// western edge to the eastern edge of the world is fixed: steppe,
// grassland, mountain, jungle, marsh. Marsh is terminal — the easternmost
// column is always forced to it after dithering.
type Ecosystem string

const (
	EcoSteppe    Ecosystem = "steppe"
	EcoGrassland Ecosystem = "grassland"
	EcoMountain  Ecosystem = "mountain"
	EcoJungle    Ecosystem = "jungle"
	EcoMarsh     Ecosystem = "marsh"
)

// Progression lists all ecosystems in west-to-east band order.
var Progression = []Ecosystem{EcoSteppe, EcoGrassland, EcoMountain, EcoJungle, EcoMarsh}

// ValidEcosystem reports whether e is one of the known labels.
func ValidEcosystem(e Ecosystem) bool {
	for _, p := range Progression {
		if p == e {
			return true
		}
	}
	return false
}

// Band is one contiguous west-east slice of the world assigned a primary
// ecosystem. The centered pure zone never dithers; the flanking
// transition zones do.
type Band struct {
	Ecosystem Ecosystem
	Index     int // position in the west-to-east progression

	StartX float64 // world meters, inclusive
	EndX   float64 // world meters, exclusive

	StartCol int
	EndCol   int // inclusive

	PureStartX float64
	PureEndX   float64
}

// Width returns the band width in meters.
func (b Band) Width() float64 {
	return b.EndX - b.StartX
}

// InPureZone reports whether x falls inside the dither-free center.
func (b Band) InPureZone(x float64) bool {
	return x >= b.PureStartX && x < b.PureEndX
}

// MakeBands partitions the world width into one band per ecosystem in
// progression order. Bands are contiguous and non-overlapping; the pure
// zone is PureRatio of the band width, centered, with the transition
// remainder split evenly on both sides.
func MakeBands(cfg Config) []Band {
	n := len(Progression)
	bandWidth := cfg.WidthM() / float64(n)
	cols := cfg.GridCols()

	bands := make([]Band, n)
	for i, eco := range Progression {
		start := float64(i) * bandWidth
		end := start + bandWidth
		pureWidth := bandWidth * cfg.PureRatio
		pureStart := start + (bandWidth-pureWidth)/2

		startCol := cols
		endCol := -1
		for col := 0; col < cols; col++ {
			x := cfg.CellX(col)
			if x >= start && (x < end || i == n-1) {
				if col < startCol {
					startCol = col
				}
				if col > endCol {
					endCol = col
				}
			}
		}

		bands[i] = Band{
			Ecosystem:  eco,
			Index:      i,
			StartX:     start,
			EndX:       end,
			StartCol:   startCol,
			EndCol:     endCol,
			PureStartX: pureStart,
			PureEndX:   pureStart + pureWidth,
		}
	}
	return bands
}

// BandForX returns the band containing world coordinate x. Coordinates
// beyond the world edges clamp to the outermost bands.
func BandForX(bands []Band, x float64) Band {
	for _, b := range bands {
		if x >= b.StartX && x < b.EndX {
			return b
		}
	}
	if x < bands[0].StartX {
		return bands[0]
	}
	return bands[len(bands)-1]
}

// EcosystemForX returns the primary ecosystem at world coordinate x.
func EcosystemForX(bands []Band, x float64) Ecosystem {
	return BandForX(bands, x).Ecosystem
}

// AdjacentBands returns the bands immediately west and east of b.
// Ecosystem dithering only ever considers these, never a band further
// away.
func AdjacentBands(bands []Band, b Band) []Band {
	var out []Band
	if b.Index > 0 {
		out = append(out, bands[b.Index-1])
	}
	if b.Index < len(bands)-1 {
		out = append(out, bands[b.Index+1])
	}
	return out
}
