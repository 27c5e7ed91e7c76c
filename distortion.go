package webp

import (
	"fmt"
	"image"

	"github.com/pixelbind/webp/internal/native"
	"github.com/pixelbind/webp/internal/pin"
)

// Metric selects the distortion measure computed by Distortion.
type Metric = native.Metric

const (
	MetricPSNR = native.MetricPSNR
	MetricSSIM = native.MetricSSIM
	MetricLSIM = native.MetricLSIM
)

// Distortion compares two images of identical dimensions and returns the
// per-channel distortion in the order B, G, R, alpha, followed by the
// aggregate over all channels (the byte planes of the packed ARGB word,
// low byte first). Higher values mean the images are closer; identical
// images saturate at 99 dB for PSNR.
//
// The images must have the same width and height. Comparing an image
// against itself is valid and yields the saturation value.
func Distortion(src, ref image.Image, metric Metric) ([5]float32, error) {
	var result [5]float32
	sb, rb := src.Bounds(), ref.Bounds()
	if sb.Dx() != rb.Dx() || sb.Dy() != rb.Dy() {
		return result, fmt.Errorf("webp: dimension mismatch %dx%d vs %dx%d: %w",
			sb.Dx(), sb.Dy(), rb.Dx(), rb.Dy(), ErrInvalidConfig)
	}
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return result, fmt.Errorf("webp: empty image: %w", ErrInvalidConfig)
	}
	if metric != MetricPSNR && metric != MetricSSIM && metric != MetricLSIM {
		return result, fmt.Errorf("webp: unknown metric %d: %w", metric, ErrInvalidConfig)
	}

	srcPix := toNRGBA(src)
	refPix := toNRGBA(ref)
	if srcPix.Stride != refPix.Stride {
		// Converted images always share a stride; reaching here means one
		// of the originals had row padding. Normalize through a copy.
		tmp := image.NewNRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
		copyNRGBA(tmp, srcPix)
		srcPix = tmp
		tmp = image.NewNRGBA(image.Rect(0, 0, rb.Dx(), rb.Dy()))
		copyNRGBA(tmp, refPix)
		refPix = tmp
	}

	sg, err := pin.Acquire(srcPix.Pix, pin.Read)
	if err != nil {
		return result, fmt.Errorf("webp: %w", err)
	}
	defer sg.Release()
	rg, err := pin.Acquire(refPix.Pix, pin.Read)
	if err != nil {
		return result, fmt.Errorf("webp: %w", err)
	}
	defer rg.Release()

	result, err = native.Distortion(sg.Addr(), rg.Addr(), sb.Dx(), sb.Dy(), srcPix.Stride, metric)
	if err != nil {
		return result, fmt.Errorf("webp: %w", err)
	}
	return result, nil
}

func copyNRGBA(dst, src *image.NRGBA) {
	w := dst.Rect.Dx() * 4
	for y := 0; y < dst.Rect.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}
