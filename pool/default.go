package pool

import "sync"

var pools sync.Map // map[int]*BytePool

// ForSize returns the process-wide pool for size-byte buffers so repeated
// sessions with the same chunk size reuse memory.
func ForSize(size int) *BytePool {
	if p, ok := pools.Load(size); ok {
		return p.(*BytePool)
	}
	p, _ := pools.LoadOrStore(size, NewBytePool(size))
	return p.(*BytePool)
}
