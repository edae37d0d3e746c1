package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rich-choy/flux-worldkit-sub000/internal/weather"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// FormatVersion identifies the NDJSON stream layout.
const FormatVersion = "1"

// Meta is the first line of an export stream.
type Meta struct {
	Version     string          `json:"version"`
	Timestamp   string          `json:"timestamp"`
	Fingerprint string          `json:"fingerprint"`
	Config      worldgen.Config `json:"config"`
}

// Exit is one traversal option out of a place.
type Exit struct {
	Direction string `json:"direction"`
	Label     string `json:"label"`
	To        string `json:"to"`
}

// Coordinates carries both grid and world positions of a place.
type Coordinates struct {
	Col int     `json:"col"`
	Row int     `json:"row"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// PlaceRecord is one self-contained location, one line of the stream.
type PlaceRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Exits       map[string]Exit    `json:"exits"`
	Entities    []string           `json:"entities"`
	Ecology     worldgen.Ecosystem `json:"ecology"`
	Weather     weather.Snapshot   `json:"weather"`
	Coordinates Coordinates        `json:"coordinates"`
}

// Fingerprint derives a stable world identifier from the generating
// configuration. SHA1-namespaced UUIDs keep it deterministic; a random
// UUID would break seed reproducibility.
func Fingerprint(cfg worldgen.Config) string {
	canonical := fmt.Sprintf("flux-world|%g|%g|%g|%g|%g|%g|%g|%d|%d|%s|%s",
		cfg.WidthKm, cfg.HeightKm, cfg.SpacingM, cfg.MarginM,
		cfg.BranchingFactor, cfg.DitherStrength, cfg.PureRatio,
		cfg.Seed, cfg.MinVertices, cfg.Strategy, cfg.WeatherMode)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonical)).String()
}

// NewMeta builds the stream header for a result.
func NewMeta(cfg worldgen.Config, now time.Time) Meta {
	return Meta{
		Version:     FormatVersion,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Fingerprint: Fingerprint(cfg),
		Config:      cfg,
	}
}
