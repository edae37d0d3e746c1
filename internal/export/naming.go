package export

import (
	"fmt"
	"hash/fnv"

	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Name and description tables are indexed by a hash of the grid
// coordinates, not the generation stream, so re-exporting an unchanged
// graph yields identical text without re-seeding.

var placeNames = map[worldgen.Ecosystem][]string{
	worldgen.EcoSteppe: {
		"Windswept Flat", "Dry Hollow", "Salt Pan", "Lone Cairn",
		"Dust Rise", "Broken Fence", "Thistle Reach", "Old Wallow",
	},
	worldgen.EcoGrassland: {
		"Tall Meadow", "Clover Run", "Lark Field", "Green Saddle",
		"Bee Orchard", "Drover Camp", "Sweetwater Bend", "Hay Crossing",
	},
	worldgen.EcoMountain: {
		"Scree Slope", "Granite Shelf", "Cold Pass", "Eagle Ledge",
		"Shale Gap", "Hermit Spur", "Frost Notch", "Cairn Summit",
	},
	worldgen.EcoJungle: {
		"Vine Tangle", "Fig Grove", "Cicada Dell", "Orchid Terrace",
		"Moss Gate", "Howler Canopy", "Fern Gully", "Liana Bridge",
	},
	worldgen.EcoMarsh: {
		"Reed Shallows", "Black Pool", "Heron Stand", "Sunken Jetty",
		"Peat Cut", "Mist Bank", "Eel Channel", "Drowned Copse",
	},
}

var placeDescriptions = map[worldgen.Ecosystem][]string{
	worldgen.EcoSteppe: {
		"Cracked earth stretches to a shimmering horizon.",
		"Hard grass rattles in a constant dry wind.",
		"A wide emptiness broken only by bleached stones.",
		"The soil here gives up little but dust and thorns.",
	},
	worldgen.EcoGrassland: {
		"Waist-high grass ripples like slow water.",
		"Wildflowers crowd a trail beaten by old hooves.",
		"The air hums with insects over rich green ground.",
		"A gentle field, soft underfoot and loud with larks.",
	},
	worldgen.EcoMountain: {
		"Thin air and bare rock, with long drops on every side.",
		"Loose stone shifts underfoot below a silent ridge.",
		"Snow lingers in the shadows between granite teeth.",
		"The wind here cuts through cloth and conversation alike.",
	},
	worldgen.EcoJungle: {
		"Green walls press close; the canopy swallows the sky.",
		"Everything drips. Something calls and is answered.",
		"Roots knot the path beneath a ceiling of leaves.",
		"Warm rot and bright blossoms share the heavy air.",
	},
	worldgen.EcoMarsh: {
		"Black water gleams between clumps of whispering reeds.",
		"Each step sinks a little deeper than the last.",
		"Fog hangs over pools that swallow all reflection.",
		"The ground is a rumor here; the water is the truth.",
	},
}

// originName and originDescription are fixed; the origin is the one
// place every traveler knows.
const (
	originName        = "The Crossroads"
	originDescription = "A worn waypost marks the meeting of every road in the world."
)

// NameFor returns the deterministic name of a vertex.
func NameFor(v *worldgen.Vertex) string {
	if v.Origin {
		return originName
	}
	names := placeNames[v.Ecosystem]
	return names[coordHash(v.Col, v.Row)%uint32(len(names))]
}

// DescriptionFor returns the deterministic description of a vertex.
func DescriptionFor(v *worldgen.Vertex) string {
	if v.Origin {
		return originDescription
	}
	descs := placeDescriptions[v.Ecosystem]
	return descs[coordHash(v.Col, v.Row)%uint32(len(descs))]
}

func coordHash(col, row int) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d", col, row)
	return h.Sum32()
}
