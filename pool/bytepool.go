// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool recycles fixed-size byte slices.
type BytePool struct {
	size int
	pool sync.Pool
}

// NewBytePool creates a pool of slices of exactly size bytes.
func NewBytePool(size int) *BytePool {
	b := &BytePool{size: size}
	b.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return b
}

// Size returns the length of slices handed out by the pool.
func (b *BytePool) Size() int {
	return b.size
}

// GetBuffer returns a buffer from the pool. Its contents are unspecified.
func (b *BytePool) GetBuffer() []byte {
	return *(b.pool.Get().(*[]byte))
}

// PutBuffer returns a buffer to the pool. Slices of a foreign size are
// dropped and left to the GC.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	buf = buf[:b.size]
	b.pool.Put(&buf)
}
