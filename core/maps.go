package core

// StrMap is a hash map keyed by string, used by transforms that track
// state per seqid or per attribute key (retain-ids collision tables,
// chseqids renaming tables).
type StrMap[V any] struct {
	m map[string]V
}

// NewStrMap returns an empty string-keyed map.
func NewStrMap[V any]() *StrMap[V] {
	return &StrMap[V]{m: make(map[string]V)}
}

func (m *StrMap[V]) Get(k string) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

func (m *StrMap[V]) Set(k string, v V) {
	m.m[k] = v
}

func (m *StrMap[V]) Delete(k string) {
	delete(m.m, k)
}

func (m *StrMap[V]) Len() int {
	return len(m.m)
}

func (m *StrMap[V]) Range(fn func(k string, v V) bool) {
	for k, v := range m.m {
		if !fn(k, v) {
			return
		}
	}
}

// IntMap is a hash map keyed by a small integer, used for per-feature
// indices (e.g. the Filter/Select "feature index" criterion).
type IntMap[V any] struct {
	m map[int]V
}

// NewIntMap returns an empty int-keyed map.
func NewIntMap[V any]() *IntMap[V] {
	return &IntMap[V]{m: make(map[int]V)}
}

func (m *IntMap[V]) Get(k int) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

func (m *IntMap[V]) Set(k int, v V) {
	m.m[k] = v
}

func (m *IntMap[V]) Len() int {
	return len(m.m)
}

// Uint64Map is an open-addressing map keyed by a raw uint64, grounded on
// genometools' uint64hashtable.c (see SPEC_FULL.md §4): callers that key
// on a 64-bit hash of a string (seqids-to-md5) use this
// instead of StrMap so the key itself never needs to be retained.
type Uint64Map[V any] struct {
	keys   []uint64
	vals   []V
	used   []bool
	count  int
	tombst int
}

// NewUint64Map returns an open-addressing map sized for at least
// capacityHint entries before its first growth.
func NewUint64Map[V any](capacityHint int) *Uint64Map[V] {
	size := nextPow2(capacityHint*2 + 1)
	if size < 8 {
		size = 8
	}
	return &Uint64Map[V]{
		keys: make([]uint64, size),
		vals: make([]V, size),
		used: make([]bool, size),
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (m *Uint64Map[V]) slot(k uint64) int {
	mask := uint64(len(m.used) - 1)
	i := k & mask
	for m.used[i] && m.keys[i] != k {
		i = (i + 1) & mask
	}
	return int(i)
}

// Get looks up k.
func (m *Uint64Map[V]) Get(k uint64) (V, bool) {
	i := m.slot(k)
	if !m.used[i] {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Set inserts or overwrites the value for k.
func (m *Uint64Map[V]) Set(k uint64, v V) {
	if (m.count+m.tombst+1)*2 > len(m.used) {
		m.grow()
	}
	i := m.slot(k)
	if !m.used[i] {
		m.count++
	}
	m.used[i] = true
	m.keys[i] = k
	m.vals[i] = v
}

func (m *Uint64Map[V]) grow() {
	old := *m
	size := len(old.used) * 2
	*m = Uint64Map[V]{
		keys: make([]uint64, size),
		vals: make([]V, size),
		used: make([]bool, size),
	}
	for i, used := range old.used {
		if used {
			m.Set(old.keys[i], old.vals[i])
		}
	}
}

// Len reports the number of live entries.
func (m *Uint64Map[V]) Len() int {
	return m.count
}
