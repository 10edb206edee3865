// Package bytepool pools byte slices in power-of-two size classes so an
// unbounded range of requested sizes is served by a bounded number of
// sync.Pool buckets.
package bytepool

import (
	"math/bits"
	"sync"
)

// pools maps a size class to its *sync.Pool. A plain sync.Map is enough
// here: two goroutines racing to create the same bucket just produce one
// extra, briefly-live *sync.Pool that LoadOrStore immediately discards in
// favor of whichever won, which is cheaper than single-flighting bucket
// creation would be.
var pools sync.Map

func bucket(size int) *sync.Pool {
	if p, ok := pools.Load(size); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{New: func() any { return make([]byte, size) }}
	actual, _ := pools.LoadOrStore(size, p)
	return actual.(*sync.Pool)
}

// classOf rounds size up to the next power of two, or size itself when it
// already is one.
func classOf(size int) int {
	if size <= 1 {
		return 1
	}
	l := bits.Len(uint(size - 1))
	return 1 << l
}

// Get returns a slice of length size drawn from a pooled size class.
func Get(size int) []byte {
	if size <= 0 {
		return nil
	}
	b := bucket(classOf(size)).Get().([]byte)
	return b[:size]
}

// Put returns b to the pool for its capacity's size class. Callers must not
// use b afterwards.
func Put(b []byte) {
	if cap(b) == 0 {
		return
	}
	l := bits.Len(uint(cap(b))) - 1
	if 1<<l != cap(b) {
		// not one of our size classes (e.g. caller-grown slice); drop it.
		return
	}
	bucket(cap(b)).Put(b[:cap(b)]) //lint:ignore SA6002 slice header copy is cheap relative to the backing array
}
