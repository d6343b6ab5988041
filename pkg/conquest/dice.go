package conquest

import (
	"encoding/binary"

	"golang.org/x/exp/rand"
	"lukechampine.com/blake3"
)

// Die returns the face of one die of a battle. The value is a pure function of
// the match seed and the die's position, so any battle can be recomputed from
// the seed and the public action log.
func Die(seed uint64, battle, duel, die int) int {
	return int(derive(seed, "die", battle, duel, die)%6) + 1
}

// derive hashes the seed with a domain tag and integer coordinates.
func derive(seed uint64, tag string, parts ...int) uint64 {
	buf := make([]byte, 0, 8+len(tag)+1+8*len(parts))
	buf = binary.LittleEndian.AppendUint64(buf, seed)
	buf = append(buf, tag...)
	buf = append(buf, 0)
	for _, p := range parts {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(p)))
	}
	sum := blake3.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

// deal returns the seeded permutation of tile indices used to hand out
// territories at start.
func deal(seed uint64, tiles int) []int {
	r := rand.New(rand.NewSource(derive(seed, "deal")))
	return r.Perm(tiles)
}
