package native

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/pixelbind/webp/internal/pool"
)

// Accumulator collects the byte chunks the native encoder streams through
// the writer callback during one encode call. The backing buffer comes from
// the buffer pool, pre-sized from the pixel count, and grows as needed.
// An accumulator belongs to exactly one encode invocation.
type Accumulator struct {
	buf []byte
	n   int
}

// NewAccumulator returns an accumulator pre-sized for an image with the
// given pixel count. Compressed output is usually well under one byte per
// pixel; the pool absorbs the cases where it is not.
func NewAccumulator(pixels int) *Accumulator {
	hint := pixels/4 + 1024
	return &Accumulator{buf: pool.Get(hint)}
}

// Write appends one chunk, growing the backing buffer if needed.
func (a *Accumulator) Write(p []byte) {
	if a.n+len(p) > len(a.buf) {
		grown := pool.Get(2*len(a.buf) + len(p))
		copy(grown, a.buf[:a.n])
		pool.Put(a.buf)
		a.buf = grown
	}
	copy(a.buf[a.n:], p)
	a.n += len(p)
}

// Len returns the number of bytes accumulated so far.
func (a *Accumulator) Len() int { return a.n }

// Bytes returns a copy of the accumulated output. The copy detaches the
// result from the pooled backing buffer.
func (a *Accumulator) Bytes() []byte {
	out := make([]byte, a.n)
	copy(out, a.buf[:a.n])
	return out
}

// Close returns the backing buffer to the pool. The accumulator must not
// be used afterwards.
func (a *Accumulator) Close() {
	if a.buf != nil {
		pool.Put(a.buf)
		a.buf = nil
		a.n = 0
	}
}

// The native encoder invokes one process-wide writer function. Per-call
// state is threaded through the picture's custom_ptr slot as a token into
// this registry, so concurrent encodes never share an accumulator.
var (
	sinkMu   sync.Mutex
	sinks    = map[uintptr]*Accumulator{}
	sinkSeq  uintptr
	sinkOnce sync.Once
	sinkFn   uintptr
)

// registerSink assigns a token to the accumulator and returns it.
func registerSink(acc *Accumulator) uintptr {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sinkSeq++
	// Token zero stays unused so a zeroed picture never resolves.
	if sinkSeq == 0 {
		sinkSeq = 1
	}
	sinks[sinkSeq] = acc
	return sinkSeq
}

func unregisterSink(token uintptr) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	delete(sinks, token)
}

func lookupSink(token uintptr) *Accumulator {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	return sinks[token]
}

// writerCallback returns the native-callable writer trampoline, created at
// most once per process (callback slots are a finite resource).
func writerCallback() uintptr {
	sinkOnce.Do(func() {
		sinkFn = purego.NewCallback(writeChunk)
	})
	return sinkFn
}

// writeChunk is the WebPWriterFunction trampoline. The native encoder may
// call it any number of times per encode with freshly produced bytes.
// Returning 0 aborts the encode; an unresolvable token does exactly that
// rather than writing into another call's buffer.
func writeChunk(data, size, picture uintptr) uintptr {
	pic := (*Picture)(unsafe.Pointer(picture))
	acc := lookupSink(pic.CustomPtr)
	if acc == nil {
		return 0
	}
	if size > 0 {
		acc.Write(unsafe.Slice((*byte)(unsafe.Pointer(data)), int(size)))
	}
	return 1
}
