package webp

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/pixelbind/webp/internal/native"
)

func init() {
	image.RegisterFormat("webp", "RIFF????WEBP", Decode, DecodeConfig)
}

// Errors returned by the bridge. Native status codes surface through the
// sentinels in internal/native (use errors.Is); encode failures carry the
// native code name.
var (
	ErrUnsupported   = errors.New("webp: unsupported format")
	ErrInvalidConfig = errors.New("webp: invalid encoder configuration")
)

// Features describes a WebP file's properties, read from the bitstream
// header without decoding pixels.
type Features struct {
	Width        int
	Height       int
	HasAlpha     bool
	HasAnimation bool
	Format       string // "lossy", "lossless", "undefined"
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Version returns the native encoder library's version, e.g. "1.5.0".
func Version() (string, error) {
	return native.EncoderVersion()
}

// GetFeatures reads WebP features without decoding pixel data. Malformed
// input surfaces the native status distinctly: a truncated header reports
// not-enough-data, a corrupt one reports a bitstream error, and so on.
func GetFeatures(r io.Reader) (*Features, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("webp: reading data: %w", err)
	}
	return getFeaturesBytes(data)
}

func getFeaturesBytes(data []byte) (*Features, error) {
	f, err := native.GetFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("webp: probing features: %w", err)
	}

	out := &Features{
		Width:        int(f.Width),
		Height:       int(f.Height),
		HasAlpha:     f.HasAlpha != 0,
		HasAnimation: f.HasAnimation != 0,
	}
	switch f.Format {
	case 1:
		out.Format = "lossy"
	case 2:
		out.Format = "lossless"
	default:
		out.Format = "undefined"
	}
	return out, nil
}
