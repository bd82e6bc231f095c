package table

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/paveg/tisch/internal/series"
)

const (
	distinctCapacityFactor = 1.5
	distinctLoadFactor     = 0.75
	distinctGrowthFactor   = 2
	hashSignBitMask        = 0x7FFFFFFFFFFFFFFF
)

// Key tags keep values of different types apart when hashed.
const (
	tagInt   byte = 'i'
	tagFloat byte = 'f'
	tagBool  byte = 'b'
	tagText  byte = 's'
	tagNull  byte = 'n'
	tagNaN   byte = 'N'
)

// distinctGroup is one distinct value: the row it first appears at and how
// many rows hold it.
type distinctGroup struct {
	key   string
	first int
	count int
}

// distinctIndex groups the rows of a column by value using xxhash-bucketed
// chaining. Groups are kept in first-occurrence order.
type distinctIndex struct {
	buckets  [][]int // indices into groups
	groups   []distinctGroup
	capacity int
}

func newDistinctIndex(estimatedSize int) *distinctIndex {
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * distinctCapacityFactor))
	return &distinctIndex{
		buckets:  make([][]int, capacity),
		capacity: capacity,
	}
}

// indexColumn builds the distinct index of every row of col.
func indexColumn(col series.ISeries) *distinctIndex {
	idx := newDistinctIndex(col.Len())
	buf := make([]byte, 0, 16)
	for row := 0; row < col.Len(); row++ {
		buf = appendKey(buf[:0], col.At(row))
		idx.add(string(buf), row)
	}
	return idx
}

// appendKey encodes a cell as a type-tagged key. Every NaN shares one key
// and negative zero is folded into zero.
func appendKey(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, tagNull)
	case int64:
		buf = append(buf, tagInt)
		return binary.LittleEndian.AppendUint64(buf, uint64(x))
	case float64:
		if math.IsNaN(x) {
			return append(buf, tagNaN)
		}
		if x == 0 {
			x = 0
		}
		buf = append(buf, tagFloat)
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	case bool:
		if x {
			return append(buf, tagBool, 1)
		}
		return append(buf, tagBool, 0)
	case string:
		buf = append(buf, tagText)
		return append(buf, x...)
	default:
		return append(buf, tagNull)
	}
}

func (d *distinctIndex) bucketFor(key string) int {
	hash := xxhash.Sum64String(key)
	//nolint:gosec // capacity is always a positive power of two
	return int((hash & hashSignBitMask) % uint64(d.capacity))
}

func (d *distinctIndex) add(key string, row int) {
	b := d.bucketFor(key)
	for _, g := range d.buckets[b] {
		if d.groups[g].key == key {
			d.groups[g].count++
			return
		}
	}

	d.groups = append(d.groups, distinctGroup{key: key, first: row, count: 1})
	d.buckets[b] = append(d.buckets[b], len(d.groups)-1)

	if float64(len(d.groups)) > float64(d.capacity)*distinctLoadFactor {
		d.resize()
	}
}

func (d *distinctIndex) resize() {
	d.capacity *= distinctGrowthFactor
	d.buckets = make([][]int, d.capacity)
	for g := range d.groups {
		b := d.bucketFor(d.groups[g].key)
		d.buckets[b] = append(d.buckets[b], g)
	}
}

// size is the number of distinct values.
func (d *distinctIndex) size() int {
	return len(d.groups)
}

// firstRows returns the first row of every distinct value in
// first-occurrence order.
func (d *distinctIndex) firstRows() []int {
	rows := make([]int, len(d.groups))
	for i, g := range d.groups {
		rows[i] = g.first
	}
	return rows
}

// nextPowerOfTwo returns the next power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
