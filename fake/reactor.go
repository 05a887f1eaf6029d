// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"errors"
	"sync"

	"github.com/momentics/hioload-vsock/api"
)

// ErrScriptExhausted is returned by Reactor.Wait once all batches are served.
var ErrScriptExhausted = errors.New("fake reactor: script exhausted")

// Reactor replays scripted readiness batches. Each Wait call returns the
// next batch; registered user data is filled in by descriptor. Like epoll,
// descriptors removed with Unregister are no longer reported.
type Reactor struct {
	mu         sync.Mutex
	registered map[uintptr]uintptr
	removed    map[uintptr]bool
	batches    [][]uintptr
	waitErr    error
	closed     bool
}

var _ api.Reactor = (*Reactor)(nil)

// NewReactor creates a reactor that reports the given descriptor batches.
func NewReactor(batches ...[]uintptr) *Reactor {
	return &Reactor{
		registered: make(map[uintptr]uintptr),
		removed:    make(map[uintptr]bool),
		batches:    batches,
	}
}

// FailWith makes Wait return err once the script is exhausted.
func (r *Reactor) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waitErr = err
}

func (r *Reactor) Register(fd uintptr, userData uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered[fd] = userData
	delete(r.removed, fd)
	return nil
}

func (r *Reactor) Unregister(fd uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.registered[fd]; ok {
		delete(r.registered, fd)
		r.removed[fd] = true
	}
	return nil
}

func (r *Reactor) Wait(events []api.Event) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		if r.waitErr != nil {
			return 0, r.waitErr
		}
		return 0, ErrScriptExhausted
	}
	batch := r.batches[0]
	r.batches = r.batches[1:]
	n := 0
	for _, fd := range batch {
		if n == len(events) {
			break
		}
		if r.removed[fd] {
			continue
		}
		ud, ok := r.registered[fd]
		if !ok {
			// Unknown descriptors surface with their fd as user data.
			ud = fd
		}
		events[n] = api.Event{Fd: fd, UserData: ud}
		n++
	}
	return n, nil
}

func (r *Reactor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Registered reports the user data registered for fd.
func (r *Reactor) Registered(fd uintptr) (uintptr, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ud, ok := r.registered[fd]
	return ud, ok
}
