//go:build linux

package reactor_test

import (
	"testing"

	"github.com/momentics/hioload-vsock/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func pipe(t *testing.T) (int, int) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC))
	t.Cleanup(func() {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	})
	return p[0], p[1]
}

func TestReactor_ReportsTaggedReadiness(t *testing.T) {
	r, err := reactor.NewReactor()
	require.NoError(t, err)
	defer r.Close()

	r1, w1 := pipe(t)
	r2, w2 := pipe(t)
	require.NoError(t, r.Register(uintptr(r1), 1))
	require.NoError(t, r.Register(uintptr(r2), 2))

	_, err = unix.Write(w2, []byte("x"))
	require.NoError(t, err)

	events := make([]reactor.Event, reactor.DefaultBatch)
	n, err := r.Wait(events)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, uintptr(r2), events[0].Fd)
	assert.Equal(t, uintptr(2), events[0].UserData)

	// Level-triggered: unread data keeps the descriptor ready.
	_, err = unix.Write(w1, []byte("y"))
	require.NoError(t, err)
	n, err = r.Wait(events)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tags := map[uintptr]bool{}
	for _, ev := range events[:n] {
		tags[ev.UserData] = true
	}
	assert.True(t, tags[1] && tags[2])
}

func TestReactor_Unregister(t *testing.T) {
	r, err := reactor.NewReactor()
	require.NoError(t, err)
	defer r.Close()

	r1, w1 := pipe(t)
	r2, w2 := pipe(t)
	require.NoError(t, r.Register(uintptr(r1), 1))
	require.NoError(t, r.Register(uintptr(r2), 2))
	require.NoError(t, r.Unregister(uintptr(r1)))

	_, _ = unix.Write(w1, []byte("ignored"))
	_, _ = unix.Write(w2, []byte("seen"))

	events := make([]reactor.Event, reactor.DefaultBatch)
	n, err := r.Wait(events)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, uintptr(2), events[0].UserData)

	assert.Error(t, r.Unregister(uintptr(r1)), "double unregister must fail")
}

func TestReactor_WaitAfterCloseFails(t *testing.T) {
	r, err := reactor.NewReactor()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Wait(make([]reactor.Event, 1))
	assert.Error(t, err)

	_, err = r.Wait(nil)
	assert.Error(t, err)
}
