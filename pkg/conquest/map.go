package conquest

import (
	"slices"
	"sort"
	"sync"
)

// Variant names a map layout together with its default rules.
type Variant string

const (
	Tiny     Variant = "tiny"
	Helvetia Variant = "helvetia"
	World    Variant = "world"
)

// Map is the static adjacency graph and faction partition of one variant.
// Maps are built once and shared between matches; callers must not mutate them.
type Map struct {
	Variant Variant

	names        []string
	directed     [][]int // border data as written, one direction per edge
	neighbors    [][]int // symmetric closure of directed, sorted
	factionOf    []int
	factions     [][]int
	factionNames []string
	rules        Rules
}

// TileCount returns the number of territories on the map.
func (m *Map) TileCount() int {
	return len(m.names)
}

// FactionCount returns the number of factions the territories are partitioned into.
func (m *Map) FactionCount() int {
	return len(m.factions)
}

// Rules returns the default ruleset shipped with the variant.
func (m *Map) Rules() Rules {
	return m.rules
}

// Name returns the display name of a tile, or "" when out of range.
func (m *Map) Name(tile int) string {
	if !m.valid(tile) {
		return ""
	}
	return m.names[tile]
}

// FactionName returns the display name of a faction, or "" when out of range.
func (m *Map) FactionName(faction int) string {
	if faction < 0 || faction >= len(m.factions) {
		return ""
	}
	return m.factionNames[faction]
}

// Neighbors returns every tile sharing a border with tile, in ascending order.
func (m *Map) Neighbors(tile int) ([]int, error) {
	if !m.valid(tile) {
		return nil, errorf(ErrNotFound, "tile %d not on map %s", tile, m.Variant)
	}
	return m.neighbors[tile], nil
}

// IsNeighbor reports whether a and b share a border. Border data is stored in
// one direction only, so both directions are checked.
func (m *Map) IsNeighbor(a, b int) bool {
	if !m.valid(a) || !m.valid(b) || a == b {
		return false
	}
	return slices.Contains(m.directed[a], b) || slices.Contains(m.directed[b], a)
}

// Faction returns the faction a tile belongs to.
func (m *Map) Faction(tile int) (int, error) {
	if !m.valid(tile) {
		return 0, errorf(ErrNotFound, "tile %d not on map %s", tile, m.Variant)
	}
	return m.factionOf[tile], nil
}

// FactionMembers returns the tiles of a faction in ascending order, or nil for
// an unknown faction.
func (m *Map) FactionMembers(faction int) []int {
	if faction < 0 || faction >= len(m.factions) {
		return nil
	}
	return m.factions[faction]
}

// FactionScore is the supply bonus for holding every tile of a faction.
func (m *Map) FactionScore(faction int) int {
	members := m.FactionMembers(faction)
	if len(members) == 0 {
		return 0
	}
	return (len(members) - 1) / 2
}

// Connected reports whether to can be reached from from by walking borders
// through tiles accepted by pass. Both endpoints must satisfy pass.
func (m *Map) Connected(from, to int, pass func(tile int) bool) bool {
	if !m.valid(from) || !m.valid(to) || !pass(from) || !pass(to) {
		return false
	}
	if from == to {
		return true
	}
	visited := make([]bool, len(m.names))
	visited[from] = true
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range m.neighbors[current] {
			if visited[next] || !pass(next) {
				continue
			}
			if next == to {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

func (m *Map) valid(tile int) bool {
	return tile >= 0 && tile < len(m.names)
}

type variantDef struct {
	once  sync.Once
	build func() *Map
	m     *Map
}

var variants = map[Variant]*variantDef{
	Tiny:     {build: buildTinyMap},
	Helvetia: {build: buildHelvetiaMap},
	World:    {build: buildWorldMap},
}

// Lookup returns the map for a variant, building it on first use.
func Lookup(v Variant) (*Map, error) {
	def, ok := variants[v]
	if !ok {
		return nil, errorf(ErrNotFound, "unknown map variant %q", v)
	}
	def.once.Do(func() {
		def.m = def.build()
	})
	return def.m, nil
}

// Variants lists the known variants in name order.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// mapBuilder accumulates tiles, factions and borders keyed by short codes.
type mapBuilder struct {
	m     *Map
	index map[string]int
}

func newMapBuilder(v Variant, rules Rules) *mapBuilder {
	return &mapBuilder{
		m:     &Map{Variant: v, rules: rules},
		index: make(map[string]int),
	}
}

func (b *mapBuilder) faction(name string, tiles ...[2]string) {
	f := len(b.m.factions)
	b.m.factionNames = append(b.m.factionNames, name)
	b.m.factions = append(b.m.factions, nil)
	for _, t := range tiles {
		idx := len(b.m.names)
		b.index[t[0]] = idx
		b.m.names = append(b.m.names, t[1])
		b.m.factionOf = append(b.m.factionOf, f)
		b.m.directed = append(b.m.directed, nil)
		b.m.factions[f] = append(b.m.factions[f], idx)
	}
}

// link records directed borders from one tile to each of the others.
func (b *mapBuilder) link(from string, to ...string) {
	src, ok := b.index[from]
	if !ok {
		panic("conquest: unknown tile code " + from)
	}
	for _, code := range to {
		dst, ok := b.index[code]
		if !ok {
			panic("conquest: unknown tile code " + code)
		}
		b.m.directed[src] = append(b.m.directed[src], dst)
	}
}

func (b *mapBuilder) build() *Map {
	n := len(b.m.names)
	b.m.neighbors = make([][]int, n)
	for src, dsts := range b.m.directed {
		for _, dst := range dsts {
			if !slices.Contains(b.m.neighbors[src], dst) {
				b.m.neighbors[src] = append(b.m.neighbors[src], dst)
			}
			if !slices.Contains(b.m.neighbors[dst], src) {
				b.m.neighbors[dst] = append(b.m.neighbors[dst], src)
			}
		}
	}
	for i := range b.m.neighbors {
		slices.Sort(b.m.neighbors[i])
	}
	return b.m
}
