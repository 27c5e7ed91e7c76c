package native

import (
	"bytes"
	"runtime"
	"testing"
	"unsafe"
)

func TestAccumulatorAppend(t *testing.T) {
	acc := NewAccumulator(64 * 48)
	defer acc.Close()

	acc.Write([]byte("RIFF"))
	acc.Write([]byte("....WEBP"))

	if acc.Len() != 12 {
		t.Errorf("Len = %d, want 12", acc.Len())
	}
	if got := acc.Bytes(); !bytes.Equal(got, []byte("RIFF....WEBP")) {
		t.Errorf("Bytes = %q", got)
	}
}

func TestAccumulatorGrow(t *testing.T) {
	// Tiny hint forces the growth path several times over.
	acc := NewAccumulator(0)
	defer acc.Close()

	chunk := make([]byte, 1000)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	const rounds = 50
	for i := 0; i < rounds; i++ {
		acc.Write(chunk)
	}

	if acc.Len() != rounds*len(chunk) {
		t.Fatalf("Len = %d, want %d", acc.Len(), rounds*len(chunk))
	}
	got := acc.Bytes()
	for i := 0; i < rounds; i++ {
		if !bytes.Equal(got[i*len(chunk):(i+1)*len(chunk)], chunk) {
			t.Fatalf("chunk %d corrupted after growth", i)
		}
	}
}

func TestAccumulatorBytesDetached(t *testing.T) {
	acc := NewAccumulator(16)
	acc.Write([]byte{1, 2, 3})
	out := acc.Bytes()
	acc.Close()

	if !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Errorf("Bytes after Close = %v", out)
	}
}

func TestSinkRegistryScoping(t *testing.T) {
	a := NewAccumulator(16)
	b := NewAccumulator(16)
	defer a.Close()
	defer b.Close()

	ta := registerSink(a)
	tb := registerSink(b)
	if ta == tb {
		t.Fatal("two registrations share one token")
	}
	if lookupSink(ta) != a || lookupSink(tb) != b {
		t.Fatal("token resolves to the wrong accumulator")
	}

	unregisterSink(ta)
	if lookupSink(ta) != nil {
		t.Error("token still resolves after unregister")
	}
	if lookupSink(tb) != b {
		t.Error("unregistering one token disturbed another")
	}
	unregisterSink(tb)
}

// Exercise the writer trampoline directly with a synthetic picture record,
// the way the native encoder calls it.
func TestWriteChunkTrampoline(t *testing.T) {
	acc := NewAccumulator(16)
	defer acc.Close()
	token := registerSink(acc)
	defer unregisterSink(token)

	var pic Picture
	pic.CustomPtr = token

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	var pinner runtime.Pinner
	pinner.Pin(unsafe.SliceData(payload))
	defer pinner.Unpin()

	ret := writeChunk(
		uintptr(unsafe.Pointer(unsafe.SliceData(payload))),
		uintptr(len(payload)),
		uintptr(unsafe.Pointer(&pic)),
	)
	if ret != 1 {
		t.Fatalf("writeChunk = %d, want 1", ret)
	}
	if !bytes.Equal(acc.Bytes(), payload) {
		t.Errorf("accumulator = %v, want %v", acc.Bytes(), payload)
	}
}

// An unknown token must abort the encode, never write somewhere else.
func TestWriteChunkUnknownToken(t *testing.T) {
	var pic Picture
	pic.CustomPtr = 0

	ret := writeChunk(0, 0, uintptr(unsafe.Pointer(&pic)))
	if ret != 0 {
		t.Errorf("writeChunk with unknown token = %d, want 0", ret)
	}
}

func TestWriteChunkZeroSize(t *testing.T) {
	acc := NewAccumulator(16)
	defer acc.Close()
	token := registerSink(acc)
	defer unregisterSink(token)

	var pic Picture
	pic.CustomPtr = token

	if ret := writeChunk(0, 0, uintptr(unsafe.Pointer(&pic))); ret != 1 {
		t.Errorf("writeChunk(size=0) = %d, want 1", ret)
	}
	if acc.Len() != 0 {
		t.Errorf("Len = %d, want 0", acc.Len())
	}
}
