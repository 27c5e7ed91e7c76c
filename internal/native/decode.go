package native

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/pixelbind/webp/internal/pin"
)

// ErrEncodeFailed is returned by the one-shot encoders, which report no
// error code beyond a zero output size.
var ErrEncodeFailed = errors.New("native: encode failed")

// GetFeatures parses only the bitstream header and returns the features
// snapshot. Each native status code surfaces as its own error.
func GetFeatures(data []byte) (*BitstreamFeatures, error) {
	if err := Available(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotEnoughData
	}

	g, err := pin.Acquire(data, pin.Read)
	if err != nil {
		return nil, err
	}
	defer g.Release()

	var f BitstreamFeatures
	status := VP8Status(webpGetFeaturesInternal(g.Addr(), uint(len(data)), &f, decoderABIVersion))
	if err := statusErr(status); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetInfo returns the dimensions from the bitstream header.
func GetInfo(data []byte) (width, height int, ok bool) {
	if Available() != nil || len(data) == 0 {
		return 0, 0, false
	}
	g, err := pin.Acquire(data, pin.Read)
	if err != nil {
		return 0, 0, false
	}
	defer g.Release()

	var w, h int32
	if webpGetInfo(g.Addr(), uint(len(data)), &w, &h) == 0 {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// DecodeRGBAInto decodes the bitstream into out, a caller-owned buffer of
// interleaved RGBA rows with the given stride. The header dimensions are
// checked against the buffer first so the native decoder can never write
// past it. out is pinned write-mode for the duration of the native call.
func DecodeRGBAInto(data []byte, out []byte, stride int) error {
	if err := Available(); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNotEnoughData
	}

	width, height, ok := GetInfo(data)
	if !ok {
		return ErrBitstream
	}
	if stride < width*4 || len(out) < (height-1)*stride+width*4 {
		return fmt.Errorf("native: output buffer %d bytes, stride %d, for %dx%d pixels: %w",
			len(out), stride, width, height, ErrInvalidParam)
	}

	src, err := pin.Acquire(data, pin.Read)
	if err != nil {
		return err
	}
	defer src.Release()

	dst, err := pin.Acquire(out, pin.Write)
	if err != nil {
		return err
	}
	defer dst.Release()

	if webpDecodeRGBAInto(src.Addr(), uint(len(data)), dst.Addr(), uint(len(out)), int32(stride)) == 0 {
		return ErrBitstream
	}
	return nil
}

// EncodeRGBA is the one-shot lossy path: default settings, a single native
// call, native-owned output copied out and freed before returning.
func EncodeRGBA(rgba []byte, width, height, stride int, quality float32) ([]byte, error) {
	if err := Available(); err != nil {
		return nil, err
	}
	g, err := pin.Acquire(rgba, pin.Read)
	if err != nil {
		return nil, err
	}
	defer g.Release()

	var out uintptr
	size := webpEncodeRGBA(g.Addr(), int32(width), int32(height), int32(stride), ClampQuality(quality), &out)
	return copyAndFree(out, size)
}

// EncodeLosslessRGBA is the one-shot lossless path.
func EncodeLosslessRGBA(rgba []byte, width, height, stride int) ([]byte, error) {
	if err := Available(); err != nil {
		return nil, err
	}
	g, err := pin.Acquire(rgba, pin.Read)
	if err != nil {
		return nil, err
	}
	defer g.Release()

	var out uintptr
	size := webpEncodeLosslessRGBA(g.Addr(), int32(width), int32(height), int32(stride), &out)
	return copyAndFree(out, size)
}

// copyAndFree detaches a native-owned output buffer: copy to Go memory,
// then release through the library's free routine.
func copyAndFree(out uintptr, size uint) ([]byte, error) {
	if size == 0 || out == 0 {
		return nil, ErrEncodeFailed
	}
	defer webpFree(out)
	buf := make([]byte, size)
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(out)), size))
	return buf, nil
}
