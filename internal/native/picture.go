package native

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Init/free balance for the native picture records. The lifecycle contract
// is one free per successful init on every path; tests assert the balance
// returns to zero rather than trusting the absence of crashes.
var (
	pictureInits atomic.Int64
	pictureFrees atomic.Int64
)

// PictureBalance returns inits minus frees for native picture records.
// Zero means no native plane or scratch memory is outstanding.
func PictureBalance() int64 {
	return pictureInits.Load() - pictureFrees.Load()
}

// newImportedPicture initializes a version-stamped picture record and
// imports interleaved RGBA rows from a pinned address. On success the
// returned picture owns native plane memory and must be released with
// free on every path.
func newImportedPicture(rgba uintptr, width, height, stride int) (*Picture, error) {
	pic := new(Picture)
	if webpPictureInitInternal(pic, encoderABIVersion) == 0 {
		return nil, ErrVersionMismatch
	}
	pictureInits.Add(1)

	pic.Width = int32(width)
	pic.Height = int32(height)
	pic.UseARGB = 1

	if webpPictureImportRGBA(pic, rgba, int32(stride)) == 0 {
		pic.free()
		return nil, fmt.Errorf("native: importing %dx%d pixels: %w", width, height, ErrOutOfMemory)
	}
	return pic, nil
}

// free releases the native-owned plane and scratch memory. Only the
// library's own free routine may do this; safe to call after a failed
// import and after a failed encode.
func (p *Picture) free() {
	webpPictureFree(p)
	pictureFrees.Add(1)
}

// Encode drives one full encode: validated config in, compressed bytes
// out. rgba must be a pinned address of interleaved RGBA rows with the
// given stride. When wantStats is set the encoder's diagnostics block is
// attached for the call and returned. All native resources are released
// before Encode returns, on success and on every failure path.
func Encode(cfg *Config, rgba uintptr, width, height, stride int, wantStats bool) ([]byte, *AuxStats, error) {
	if err := Available(); err != nil {
		return nil, nil, err
	}

	pic, err := newImportedPicture(rgba, width, height, stride)
	if err != nil {
		return nil, nil, err
	}
	defer pic.free()

	acc := NewAccumulator(width * height)
	defer acc.Close()

	token := registerSink(acc)
	defer unregisterSink(token)

	pic.Writer = writerCallback()
	pic.CustomPtr = token

	// The stats block is bridge-allocated and handed across by address;
	// pin it for the duration of the native call.
	var stats *AuxStats
	if wantStats {
		stats = new(AuxStats)
		var pinner runtime.Pinner
		pinner.Pin(stats)
		defer pinner.Unpin()
		pic.Stats = uintptr(unsafe.Pointer(stats))
	}

	if webpEncode(cfg, pic) == 0 {
		return nil, nil, EncodingError(pic.ErrorCode)
	}
	return acc.Bytes(), stats, nil
}
