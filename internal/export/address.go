// Package export turns a finished world graph into addressable place
// records and serializes them as a newline-delimited JSON stream
// consumable by the game server, with duplicate detection before
// emission and full re-import validation.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// OriginAddress is the single reserved well-known address of the
// world's origin vertex.
const OriginAddress = "flux:place:origin"

const addressPrefix = "flux:place:"

// Sentinel errors of the unrecoverable invariant-violation class. Any of
// these blocks export or import entirely.
var (
	ErrDuplicateAddress = errors.New("duplicate place address")
	ErrOrigin           = errors.New("world origin is missing or ambiguous")
	ErrBadRecord        = errors.New("malformed place record")
	ErrNotFinalized     = errors.New("addresses not finalized")
)

// Address derives the stable address of a vertex from its ecosystem and
// grid coordinates. The origin gets the reserved address instead.
func Address(v *worldgen.Vertex) string {
	if v.Origin {
		return OriginAddress
	}
	return fmt.Sprintf("%s%s:%d:%d", addressPrefix, v.Ecosystem, v.Col, v.Row)
}

// FinalizeAddresses assigns every vertex its address. It must run only
// after dithering and the marsh post-pass, so addresses can never go
// stale. Fails on a second finalization, on two vertices sharing
// (ecosystem, coordinates), or on an origin count other than one.
func FinalizeAddresses(g *worldgen.Graph) error {
	if g.OriginVertex() == nil {
		return fmt.Errorf("%w: expected exactly one origin-flagged vertex", ErrOrigin)
	}

	seen := make(map[string]worldgen.VertexID, g.VertexCount())
	for _, v := range g.Vertices() {
		if v.Address != "" {
			return fmt.Errorf("address of vertex %d already finalized as %q", v.ID, v.Address)
		}
		addr := Address(v)
		if prev, dup := seen[addr]; dup {
			return fmt.Errorf("%w: %s claimed by vertices %d and %d", ErrDuplicateAddress, addr, prev, v.ID)
		}
		seen[addr] = v.ID
	}
	for _, v := range g.Vertices() {
		v.Address = Address(v)
	}
	return nil
}

// ParseAddress splits a place address into its components. The origin
// address returns origin=true with no coordinate payload.
func ParseAddress(addr string) (eco worldgen.Ecosystem, col, row int, origin bool, err error) {
	if addr == OriginAddress {
		return "", 0, 0, true, nil
	}
	rest, ok := strings.CutPrefix(addr, addressPrefix)
	if !ok {
		return "", 0, 0, false, fmt.Errorf("%w: address %q", ErrBadRecord, addr)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", 0, 0, false, fmt.Errorf("%w: address %q", ErrBadRecord, addr)
	}
	eco = worldgen.Ecosystem(parts[0])
	if !worldgen.ValidEcosystem(eco) {
		return "", 0, 0, false, fmt.Errorf("%w: unknown ecosystem in %q", ErrBadRecord, addr)
	}
	col, err = strconv.Atoi(parts[1])
	if err == nil {
		row, err = strconv.Atoi(parts[2])
	}
	if err != nil {
		return "", 0, 0, false, fmt.Errorf("%w: coordinates in %q", ErrBadRecord, addr)
	}
	return eco, col, row, false, nil
}
