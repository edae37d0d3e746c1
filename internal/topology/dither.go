package topology

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Dither probabilistically reassigns vertex ecosystems near band
// boundaries so the west-east progression blends instead of snapping.
// The pass is a pure map computed from the pre-dither state: every
// vertex is considered exactly once against its original band, so a
// reassignment can never cascade a second hop. Only the immediately
// adjacent bands ever qualify. A fixed post-pass then forces the
// easternmost grid column to marsh.
func Dither(g *worldgen.Graph, bands []worldgen.Band, strength float64, rng *entropy.Stream) worldgen.DitherStats {
	stats := worldgen.DitherStats{Transitions: make(map[string]int)}

	for _, v := range g.Vertices() {
		stats.Considered++
		home := worldgen.BandForX(bands, v.X)
		if home.InPureZone(v.X) || strength <= 0 {
			continue
		}

		zoneWidth := home.Width() / 2 * strength
		if zoneWidth <= 0 {
			continue
		}

		var targets []worldgen.Ecosystem
		var weights []float64
		for _, adj := range worldgen.AdjacentBands(bands, home) {
			boundary := home.StartX
			if adj.Index > home.Index {
				boundary = home.EndX
			}
			d := math.Abs(v.X-boundary) / zoneWidth
			if d > 1 {
				continue
			}
			targets = append(targets, adj.Ecosystem)
			weights = append(weights, strength*math.Exp(-(2*d)*(2*d)))
		}
		if len(targets) == 0 {
			continue
		}

		// Stay takes the remaining probability mass; the normalized draw
		// then spans targets plus stay.
		total := 0.0
		for _, w := range weights {
			total += w
		}
		stay := 1 - total
		if stay < 0 {
			stay = 0
		}
		weights = append(weights, stay)

		idx := rng.WeightedIndex(weights)
		if idx == len(targets) {
			continue // stayed
		}
		next := targets[idx]
		if next == v.OriginalEcosystem {
			continue
		}
		stats.Reassigned++
		stats.Transitions[fmt.Sprintf("%s>%s", v.OriginalEcosystem, next)]++
		v.Ecosystem = next
	}

	forceEasternMarsh(g, bands, &stats)

	slog.Info("ecosystem dithering",
		"considered", stats.Considered,
		"reassigned", stats.Reassigned,
		"forced_marsh", stats.ForcedMarsh,
	)
	return stats
}

// forceEasternMarsh pins every vertex on the easternmost grid column to
// the terminal marsh ecosystem, regardless of the dithering outcome.
// That column always belongs to the last band, so the adjacency-only
// property survives even on a stalled world that never grew that far
// east: vertices further west are left alone.
func forceEasternMarsh(g *worldgen.Graph, bands []worldgen.Band, stats *worldgen.DitherStats) {
	lastCol := bands[len(bands)-1].EndCol
	if lastCol < 0 {
		return
	}
	for _, v := range g.Vertices() {
		if v.Col == lastCol && v.Ecosystem != worldgen.EcoMarsh {
			v.Ecosystem = worldgen.EcoMarsh
			stats.ForcedMarsh++
		}
	}
}
