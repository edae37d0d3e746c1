// Package weather synthesizes a weather snapshot for every world vertex
// from its ecosystem's climate envelope. Two modes: independent
// per-vertex draws, or a smoothed field built from a seeded noise
// gradient blended across graph edges for coherent regional weather.
package weather

import (
	"log/slog"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Snapshot is the weather attached to one place record.
type Snapshot struct {
	TempC       float64 `json:"temp_c"`
	PressureHPa float64 `json:"pressure_hpa"`
	Humidity    float64 `json:"humidity"` // percent
	PrecipMM    float64 `json:"precip_mm"`
	SolarWM2    float64 `json:"solar_wm2"`
	CloudFrac   float64 `json:"cloud_frac"`
}

// envelope is the ecological range weather must stay inside.
type envelope struct {
	tempLo, tempHi float64
	presLo, presHi float64
	humLo, humHi   float64
}

var envelopes = map[worldgen.Ecosystem]envelope{
	worldgen.EcoSteppe:    {tempLo: 5, tempHi: 30, presLo: 1005, presHi: 1025, humLo: 20, humHi: 50},
	worldgen.EcoGrassland: {tempLo: 8, tempHi: 28, presLo: 1008, presHi: 1024, humLo: 35, humHi: 65},
	worldgen.EcoMountain:  {tempLo: -10, tempHi: 15, presLo: 850, presHi: 950, humLo: 30, humHi: 70},
	worldgen.EcoJungle:    {tempLo: 20, tempHi: 34, presLo: 1006, presHi: 1016, humLo: 70, humHi: 95},
	worldgen.EcoMarsh:     {tempLo: 12, tempHi: 26, presLo: 1010, presHi: 1022, humLo: 75, humHi: 98},
}

// Bounds returns the temperature/pressure/humidity envelope of an
// ecosystem as (lo, hi) triples, for validation by callers.
func Bounds(eco worldgen.Ecosystem) (tempLo, tempHi, presLo, presHi, humLo, humHi float64) {
	e := envelopes[eco]
	return e.tempLo, e.tempHi, e.presLo, e.presHi, e.humLo, e.humHi
}

// smoothingIterations is the neighbor-averaging round count for the
// smooth mode.
const smoothingIterations = 3

// Synthesize produces one snapshot per vertex, indexed by handle. The
// stream should be a dedicated fork so weather draws cannot shift other
// pipeline stages.
func Synthesize(g *worldgen.Graph, cfg worldgen.Config, rng *entropy.Stream) []Snapshot {
	switch cfg.WeatherMode {
	case worldgen.WeatherSmooth:
		return synthesizeSmooth(g, cfg)
	default:
		return synthesizeLocal(g, rng)
	}
}

// synthesizeLocal draws each vertex independently from its ecosystem
// envelope.
func synthesizeLocal(g *worldgen.Graph, rng *entropy.Stream) []Snapshot {
	out := make([]Snapshot, g.VertexCount())
	for i, v := range g.Vertices() {
		env := envelopes[v.Ecosystem]
		s := Snapshot{
			TempC:       rng.Range(env.tempLo, env.tempHi),
			PressureHPa: rng.Range(env.presLo, env.presHi),
			Humidity:    rng.Range(env.humLo, env.humHi),
		}
		derive(&s)
		out[i] = s
	}
	slog.Info("weather synthesized", "mode", "local", "vertices", len(out))
	return out
}

// synthesizeSmooth seeds temperature, pressure, and humidity from a
// simplex gradient over world coordinates, then runs distance-weighted
// neighbor averaging across graph edges, re-clamping to each vertex's
// ecological envelope every iteration.
func synthesizeSmooth(g *worldgen.Graph, cfg worldgen.Config) []Snapshot {
	tempNoise := opensimplex.NewNormalized(cfg.Seed)
	presNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	humNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	const freq = 1.0 / 4000 // regional scale: one noise cycle per ~4 km

	out := make([]Snapshot, g.VertexCount())
	for i, v := range g.Vertices() {
		env := envelopes[v.Ecosystem]
		out[i] = Snapshot{
			TempC:       lerp(env.tempLo, env.tempHi, tempNoise.Eval2(v.X*freq, v.Y*freq)),
			PressureHPa: lerp(env.presLo, env.presHi, presNoise.Eval2(v.X*freq, v.Y*freq)),
			Humidity:    lerp(env.humLo, env.humHi, humNoise.Eval2(v.X*freq, v.Y*freq)),
		}
	}

	for iter := 0; iter < smoothingIterations; iter++ {
		next := make([]Snapshot, len(out))
		for i, v := range g.Vertices() {
			self := out[i]
			sumT, sumP, sumH, sumW := 0.0, 0.0, 0.0, 0.0
			for _, n := range v.Conns {
				nv := g.Vertex(n)
				d := math.Hypot(v.X-nv.X, v.Y-nv.Y)
				if d <= 0 {
					continue
				}
				w := 1 / d
				sumT += out[n].TempC * w
				sumP += out[n].PressureHPa * w
				sumH += out[n].Humidity * w
				sumW += w
			}
			if sumW > 0 {
				self.TempC = (self.TempC + sumT/sumW) / 2
				self.PressureHPa = (self.PressureHPa + sumP/sumW) / 2
				self.Humidity = (self.Humidity + sumH/sumW) / 2
			}
			env := envelopes[v.Ecosystem]
			self.TempC = clampf(self.TempC, env.tempLo, env.tempHi)
			self.PressureHPa = clampf(self.PressureHPa, env.presLo, env.presHi)
			self.Humidity = clampf(self.Humidity, env.humLo, env.humHi)
			next[i] = self
		}
		out = next
	}

	for i := range out {
		derive(&out[i])
	}
	slog.Info("weather synthesized", "mode", "smooth", "vertices", len(out), "iterations", smoothingIterations)
	return out
}

// derive fills precipitation, cloud cover, and solar flux from the three
// primary fields.
func derive(s *Snapshot) {
	s.CloudFrac = clampf(s.Humidity/100*0.9, 0, 1)
	if s.Humidity > 60 {
		warmth := clampf((s.TempC+10)/40, 0, 1)
		s.PrecipMM = (s.Humidity - 60) * 0.3 * (0.5 + warmth)
	}
	s.SolarWM2 = 1000 * (1 - 0.75*s.CloudFrac)
}

func lerp(lo, hi, t float64) float64 {
	return lo + (hi-lo)*t
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
