package pool_test

import (
	"testing"

	"github.com/momentics/hioload-vsock/pool"
)

func TestBytePool_SizeAndReuse(t *testing.T) {
	bp := pool.NewBytePool(128)
	b1 := bp.GetBuffer()
	if len(b1) != 128 {
		t.Fatalf("expected 128-byte buffer, got %d", len(b1))
	}
	b1[0] = 7
	bp.PutBuffer(b1[:10])
	b2 := bp.GetBuffer()
	if len(b2) != 128 {
		t.Errorf("recycled buffer must be restored to full length, got %d", len(b2))
	}
}

func TestBytePool_DropsForeignSizes(t *testing.T) {
	bp := pool.NewBytePool(64)
	bp.PutBuffer(make([]byte, 32))
	if got := len(bp.GetBuffer()); got != 64 {
		t.Errorf("foreign buffer leaked into pool: len %d", got)
	}
}

func TestForSize_SharesPools(t *testing.T) {
	if pool.ForSize(4096) != pool.ForSize(4096) {
		t.Error("ForSize must return the same pool for equal sizes")
	}
	if pool.ForSize(4096) == pool.ForSize(8192) {
		t.Error("ForSize must separate pools by size")
	}
	if pool.ForSize(1024).Size() != 1024 {
		t.Error("pool size mismatch")
	}
}
