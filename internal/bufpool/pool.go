// Package bufpool provides reusable, size-classed byte buffers for the
// protocol's small frames, reducing per-chunk / per-frame allocation churn on
// the shears' transfer emitter and the hub's serial uplink writer.
package bufpool

import "sync"

// sizeClasses are tuned for this protocol's wire shapes: short control and
// status messages (up to 32 bytes), a full chunk payload (up to 160 bytes),
// and a full serial frame (4-byte header + up to 200 bytes of payload + 1
// checksum byte). An encoded full chunk (2-byte header + 160 bytes) and a
// START_TRANSFER with a long basename fall into the next class up.
var sizeClasses = []int{32, 160, 256}

type classPool struct {
	size int
	pool *sync.Pool
}

// Pool provides sized byte slices backed by reusable buffers.
type Pool struct {
	pools []classPool
}

var defaultPool = New()

// Get acquires a buffer from the package-level default pool.
func Get(size int) []byte { return defaultPool.Get(size) }

// Put releases a buffer back to the package-level default pool.
func Put(buf []byte) { defaultPool.Put(buf) }

// New creates a buffer pool with predefined size classes.
func New() *Pool {
	pools := make([]classPool, len(sizeClasses))
	for i, classSize := range sizeClasses {
		size := classSize
		pools[i] = classPool{
			size: size,
			pool: &sync.Pool{New: func() any { return make([]byte, size) }},
		}
	}
	return &Pool{pools: pools}
}

// Get returns a byte slice whose length matches the requested size and whose
// capacity is the nearest predefined size class that can accommodate it.
// Requests larger than the maximum size class allocate a fresh slice.
func (p *Pool) Get(size int) []byte {
	if p == nil || size <= 0 {
		return nil
	}
	for i := range p.pools {
		class := &p.pools[i]
		if size <= class.size {
			buf := class.pool.Get().([]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to the pool if its capacity matches a predefined size
// class. Buffers that don't match any class are discarded. The buffer is
// zeroed before reuse so no payload leaks across callers.
func (p *Pool) Put(buf []byte) {
	if p == nil || buf == nil {
		return
	}
	capBuf := cap(buf)
	for i := range p.pools {
		class := &p.pools[i]
		if capBuf == class.size {
			full := buf[:class.size]
			clear(full)
			class.pool.Put(full)
			return
		}
	}
}
