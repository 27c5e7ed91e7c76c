// Package pin provides scoped pinning of pixel buffers for native interop.
//
// A Guard keeps a Go byte slice at a stable address for as long as the guard
// is held, so the native library can read or write it by pointer. Release is
// idempotent and meant for defer, so the unpin runs on every exit path.
package pin

import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Mode states the direction of native access to the pinned buffer.
type Mode int

const (
	// Read pins a buffer the native side only reads (encode, measure).
	Read Mode = iota
	// Write pins a buffer the native side writes into (decode).
	Write
)

// ErrEmptyBuffer is returned when there is nothing to pin.
var ErrEmptyBuffer = errors.New("pin: empty buffer")

// active tracks acquired-but-unreleased guards. Tests use it to verify
// that every exit path released its guard.
var active atomic.Int64

// Guard holds one pinned buffer. A Guard is tied to the call that created
// it: it must not be shared across goroutines or kept after the native call
// returns. The caller must not mutate the buffer from another goroutine
// while the guard is held.
type Guard struct {
	pinner   runtime.Pinner
	addr     uintptr
	mode     Mode
	released bool
}

// Acquire pins buf and returns a guard exposing its address. The returned
// guard must be released, normally via defer.
func Acquire(buf []byte, mode Mode) (*Guard, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}
	g := &Guard{mode: mode}
	p := unsafe.SliceData(buf)
	g.pinner.Pin(p)
	g.addr = uintptr(unsafe.Pointer(p))
	active.Add(1)
	return g, nil
}

// Addr returns the pinned buffer's address. Valid until Release.
func (g *Guard) Addr() uintptr {
	if g.released {
		panic("pin: Addr after Release")
	}
	return g.addr
}

// Mode returns the access mode the guard was acquired with.
func (g *Guard) Mode() Mode { return g.mode }

// Release unpins the buffer. Safe to call more than once; only the first
// call has effect.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.addr = 0
	g.pinner.Unpin()
	active.Add(-1)
}

// Active returns the number of currently held guards.
func Active() int64 { return active.Load() }
