package webp

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/pixelbind/webp/internal/native"
)

// Decode reads a WebP image from r and returns it as an *image.NRGBA.
// The native decoder writes straight into the returned image's pixel
// buffer; no intermediate native-owned copy is kept.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("webp: reading data: %w", err)
	}
	return decodeBytes(data)
}

// DecodeConfig returns the color model and dimensions of a WebP image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("webp: reading data: %w", err)
	}

	feat, err := getFeaturesBytes(data)
	if err != nil {
		return image.Config{}, err
	}

	cm := color.Model(color.NRGBAModel)
	if !feat.HasAlpha {
		cm = color.YCbCrModel
	}
	return image.Config{
		ColorModel: cm,
		Width:      feat.Width,
		Height:     feat.Height,
	}, nil
}

// decodeBytes decodes a complete WebP file from a byte slice.
func decodeBytes(data []byte) (image.Image, error) {
	feat, err := getFeaturesBytes(data)
	if err != nil {
		return nil, err
	}
	if feat.HasAnimation {
		// Still-image decode only; animation needs the demux API.
		return nil, fmt.Errorf("webp: animated input: %w", ErrUnsupported)
	}

	img := image.NewNRGBA(image.Rect(0, 0, feat.Width, feat.Height))
	if err := native.DecodeRGBAInto(data, img.Pix, img.Stride); err != nil {
		return nil, fmt.Errorf("webp: decoding: %w", err)
	}
	return img, nil
}
