package webp

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/pixelbind/webp/internal/native"
	"github.com/pixelbind/webp/internal/pin"
)

// MaxDimension is the maximum allowed width or height for a WebP image, in
// pixels. This matches libwebp's WEBP_MAX_DIMENSION constant.
const MaxDimension = 16383

// Preset selects a set of encoding parameters tuned for specific content
// types. The preset is applied before any tuning, so individual option
// fields still win.
type Preset int

const (
	PresetDefault Preset = iota
	PresetPicture
	PresetPhoto
	PresetDrawing
	PresetIcon
	PresetText
)

// EncoderOptions controls WebP encoding parameters.
type EncoderOptions struct {
	// Lossless enables VP8L lossless encoding.
	// When false (default), VP8 lossy encoding is used.
	Lossless bool

	// Quality is the compression quality (0-100, default 75).
	// For lossy: lower means smaller files with more artifacts.
	// For lossless: controls the compression effort.
	Quality float32

	// Method controls encoding effort (0-6, default 4). Higher values
	// produce smaller files at the cost of longer encoding times.
	// Values outside the range are clamped.
	Method int

	// Preset selects encoding parameters tuned for specific content types.
	Preset Preset

	// NearLossless enables near-lossless preprocessing with the given
	// level (0 = maximum preprocessing, 100 = off). The default -1
	// disables the mode entirely.
	NearLossless int

	// Exact preserves the RGB values under transparent areas instead of
	// letting the encoder discard them for better compression.
	Exact bool

	// Stats, when non-nil, receives encoder diagnostics for the call.
	Stats *Stats
}

// Options is an alias for backward compatibility.
type Options = EncoderOptions

// DefaultOptions returns encoding options with quality 75, lossy, method 4.
// NearLossless uses the sentinel -1 (disabled) so that its Go zero value
// does not accidentally select maximum preprocessing.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{
		Quality:      75,
		Method:       4,
		NearLossless: -1,
	}
}

// Stats reports per-call encoder diagnostics, mirroring the auxiliary
// statistics libwebp collects during encoding. Lossy and lossless encodes
// populate disjoint subsets of the fields; CodedSize is always set.
type Stats struct {
	// CodedSize is the size of the produced bitstream in bytes.
	CodedSize int

	// PSNR holds the peak signal to noise ratio for Y, U, V, the combined
	// channels and alpha, in that order. Lossy only.
	PSNR [5]float32

	// BlockCounts is the number of intra-4x4, intra-16x16 and skipped
	// macroblocks. Lossy only.
	BlockCounts [3]int

	HeaderBytes         int
	ModePartition0Bytes int

	// SegmentSizes, SegmentQuantizers and SegmentFilterLevels describe the
	// four quantization segments of a lossy encode.
	SegmentSizes        [4]int
	SegmentQuantizers   [4]int
	SegmentFilterLevels [4]int

	// AlphaDataSize is the size of the transparency data in bytes.
	AlphaDataSize int

	// LosslessFeatures is a bitmask of lossless tools used: bit 0
	// prediction, bit 1 cross-color, bit 2 subtract-green, bit 3
	// color indexing.
	LosslessFeatures int

	HistogramBits int
	TransformBits int
	CacheBits     int
	PaletteSize   int

	LosslessSize       int
	LosslessHeaderSize int
	LosslessDataSize   int
}

func statsFromAux(a *native.AuxStats) Stats {
	s := Stats{
		CodedSize:           int(a.CodedSize),
		HeaderBytes:         int(a.HeaderBytes[0]),
		ModePartition0Bytes: int(a.HeaderBytes[1]),
		AlphaDataSize:       int(a.AlphaDataSize),
		LosslessFeatures:    int(a.LosslessFeatures),
		HistogramBits:       int(a.HistogramBits),
		TransformBits:       int(a.TransformBits),
		CacheBits:           int(a.CacheBits),
		PaletteSize:         int(a.PaletteSize),
		LosslessSize:        int(a.LosslessSize),
		LosslessHeaderSize:  int(a.LosslessHdrSize),
		LosslessDataSize:    int(a.LosslessDataSize),
	}
	s.PSNR = a.PSNR
	for i := range s.BlockCounts {
		s.BlockCounts[i] = int(a.BlockCount[i])
	}
	for i := 0; i < 4; i++ {
		s.SegmentSizes[i] = int(a.SegmentSize[i])
		s.SegmentQuantizers[i] = int(a.SegmentQuant[i])
		s.SegmentFilterLevels[i] = int(a.SegmentLevel[i])
	}
	return s
}

// Encode writes the image img to w in WebP format.
// If opts is nil, DefaultOptions() is used.
// Returns an error wrapping ErrInvalidConfig if opts contains invalid
// parameter values.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return fmt.Errorf("webp: quality %.2f out of range [0, 100]: %w", opts.Quality, ErrInvalidConfig)
	}
	if opts.Preset < PresetDefault || opts.Preset > PresetText {
		return fmt.Errorf("webp: unknown preset %d: %w", opts.Preset, ErrInvalidConfig)
	}
	if opts.NearLossless > 100 {
		return fmt.Errorf("webp: near-lossless level %d out of range [0, 100]: %w", opts.NearLossless, ErrInvalidConfig)
	}
	nrgba, err := encodeFrame(img)
	if err != nil {
		return err
	}

	cfg, err := native.NewConfig(native.Preset(opts.Preset), opts.Quality)
	if err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	switch {
	case opts.NearLossless >= 0:
		if err := cfg.TuneNearLossless(opts.NearLossless, opts.Method); err != nil {
			return fmt.Errorf("webp: %w: %w", err, ErrInvalidConfig)
		}
	case opts.Lossless:
		if err := cfg.TuneLossless(opts.Method); err != nil {
			return fmt.Errorf("webp: %w: %w", err, ErrInvalidConfig)
		}
	default:
		cfg.TuneLossy(opts.Method)
	}
	if opts.Exact {
		cfg.Exact = 1
	}
	if !cfg.Validate() {
		return fmt.Errorf("webp: %w", ErrInvalidConfig)
	}

	b := nrgba.Bounds()
	g, err := pin.Acquire(nrgba.Pix, pin.Read)
	if err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	defer g.Release()

	out, aux, err := native.Encode(cfg, g.Addr(), b.Dx(), b.Dy(), nrgba.Stride, opts.Stats != nil)
	if err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	if opts.Stats != nil {
		*opts.Stats = statsFromAux(aux)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("webp: writing output: %w", err)
	}
	return nil
}

// EncodeLossy writes img to w as lossy WebP at the given quality using
// libwebp's defaults for everything else. Quality outside [0, 100] is
// clamped. For control over the encoder, use Encode.
func EncodeLossy(w io.Writer, img image.Image, quality float32) error {
	nrgba, err := encodeFrame(img)
	if err != nil {
		return err
	}
	b := nrgba.Bounds()
	out, err := native.EncodeRGBA(nrgba.Pix, b.Dx(), b.Dy(), nrgba.Stride, quality)
	if err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("webp: writing output: %w", err)
	}
	return nil
}

// EncodeLossless writes img to w as lossless WebP using libwebp's default
// parameters.
func EncodeLossless(w io.Writer, img image.Image) error {
	nrgba, err := encodeFrame(img)
	if err != nil {
		return err
	}
	b := nrgba.Bounds()
	out, err := native.EncodeLosslessRGBA(nrgba.Pix, b.Dx(), b.Dy(), nrgba.Stride)
	if err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("webp: writing output: %w", err)
	}
	return nil
}

// EncodeNearLossless writes img to w using near-lossless preprocessing at
// the given level (0 = maximum preprocessing, 100 = off).
func EncodeNearLossless(w io.Writer, img image.Image, level int) error {
	opts := DefaultOptions()
	opts.NearLossless = level
	opts.Method = 6
	return Encode(w, img, opts)
}

// encodeFrame validates the image dimensions and converts img to NRGBA
// for import into the encoder.
func encodeFrame(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("webp: empty image: %w", ErrInvalidConfig)
	}
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return nil, fmt.Errorf("webp: image dimension %dx%d exceeds maximum %d: %w", b.Dx(), b.Dy(), MaxDimension, ErrInvalidConfig)
	}
	return toNRGBA(img), nil
}

// toNRGBA returns img as a zero-origin NRGBA image, converting only when
// necessary. WebP stores non-premultiplied pixel values, so premultiplied
// sources go through the color model conversion in draw.Draw.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min.X == 0 && n.Rect.Min.Y == 0 {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
