package dataframe

import (
	"encoding/binary"
	"math"
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/paveg/cub/internal/series"
)

// distinctSet groups the positions of a vector by value. It hashes values
// with xxhash into buckets and checks real equality inside a bucket.
type distinctSet struct {
	v       vector
	buckets map[uint64][]int // hash -> group ids
	firsts  []int            // first position of each group
	counts  []int
	groups  []int // group id of every position
}

func newDistinctSet(v vector) *distinctSet {
	d := &distinctSet{
		v:       v,
		buckets: make(map[uint64][]int),
		groups:  make([]int, v.len()),
	}
	for i := 0; i < v.len(); i++ {
		d.groups[i] = d.add(i)
	}
	return d
}

// valueHash hashes position i. Every missing value hashes alike and -0
// hashes like 0.
func valueHash(v vector, i int) uint64 {
	var buf [9]byte
	if v.missing(i) {
		return xxhash.Sum64(buf[:1])
	}
	buf[0] = 1
	switch v.kind {
	case series.Int:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.ints[i]))
	case series.Float:
		f := v.floats[i]
		if f == 0 {
			f = 0
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
	case series.Bool:
		if v.bools[i] {
			buf[1] = 1
		}
		return xxhash.Sum64(buf[:2])
	default:
		return xxhash.Sum64String("\x01" + v.strs[i])
	}
	return xxhash.Sum64(buf[:])
}

// add records position i and returns its group id.
func (d *distinctSet) add(i int) int {
	h := valueHash(d.v, i)
	for _, g := range d.buckets[h] {
		if d.v.equal(d.firsts[g], i) {
			d.counts[g]++
			return g
		}
	}
	g := len(d.firsts)
	d.buckets[h] = append(d.buckets[h], g)
	d.firsts = append(d.firsts, i)
	d.counts = append(d.counts, 1)
	return g
}

func (d *distinctSet) len() int {
	return len(d.firsts)
}

// sortedGroups returns group ids ordered by value ascending, missing last.
func (d *distinctSet) sortedGroups() []int {
	order := make([]int, d.len())
	for g := range order {
		order[g] = g
	}
	sort.SliceStable(order, func(a, b int) bool {
		return d.v.compare(d.firsts[order[a]], d.firsts[order[b]]) < 0
	})
	return order
}

// values returns one representative per group in the given group order.
func (d *distinctSet) values(groups []int) vector {
	positions := make([]int, len(groups))
	for i, g := range groups {
		positions[i] = d.firsts[g]
	}
	return d.v.take(positions)
}

// members lists the positions of every group.
func (d *distinctSet) members() [][]int {
	out := make([][]int, d.len())
	for i, g := range d.groups {
		out[g] = append(out[g], i)
	}
	return out
}
