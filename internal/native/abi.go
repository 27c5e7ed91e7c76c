package native

import "unsafe"

// ABI version stamps expected by this bridge. The *Internal entry points
// re-check these against the library's compiled value and fail on a major
// revision mismatch, so a stale shared library is rejected before any
// struct is handed across the boundary.
const (
	encoderABIVersion = 0x020f // WEBP_ENCODER_ABI_VERSION
	decoderABIVersion = 0x0209 // WEBP_DECODER_ABI_VERSION
)

// Config mirrors WebPConfig from encode.h byte for byte. Field order and
// widths are part of the native ABI: 29 four-byte fields, 116 bytes on
// every platform, no padding. Do not reorder or resize fields.
type Config struct {
	Lossless       int32   // 0=lossy, 1=lossless
	Quality        float32 // 0..100
	Method         int32   // 0=fast .. 6=slowest
	ImageHint      int32
	TargetSize     int32
	TargetPSNR     float32
	Segments       int32 // 1..4
	SNSStrength    int32
	FilterStrength int32
	FilterSharp    int32
	FilterType     int32
	Autofilter     int32
	AlphaComp      int32
	AlphaFiltering int32
	AlphaQuality   int32
	Pass           int32 // 1..10
	ShowCompressed int32
	Preprocessing  int32
	Partitions     int32 // 0..3, log2(token partitions)
	PartitionLimit int32
	EmulateJPEG    int32
	ThreadLevel    int32
	LowMemory      int32
	NearLossless   int32 // 0..100, 100=off
	Exact          int32
	UseDeltaPal    int32
	UseSharpYUV    int32
	QMin           int32
	QMax           int32
}

// Picture mirrors WebPPicture from encode.h. The native library owns the
// plane and scratch memory behind Y/U/V/A/ARGB and the two memory_ fields;
// only PictureFree may release them. The pad fields are reserved space in
// the native layout and must stay.
type Picture struct {
	UseARGB    int32
	Colorspace int32 // WebPEncCSP; 0 = YUV420
	Width      int32
	Height     int32

	// YUVA input planes, native-owned.
	Y, U, V            uintptr
	YStride, UVStride  int32
	A                  uintptr
	AStride            int32
	pad1               [2]uint32

	// ARGB input, native-owned.
	ARGB       uintptr // *uint32
	ARGBStride int32
	pad2       [3]uint32

	// Output wiring.
	Writer        uintptr // WebPWriterFunction
	CustomPtr     uintptr // opaque user data handed back to Writer
	ExtraInfoType int32
	ExtraInfo     uintptr
	Stats         uintptr // *AuxStats, pinned by the bridge for the call
	ErrorCode     int32 // EncodingError, set by the native encoder
	ProgressHook  uintptr
	UserData      uintptr

	pad3                 [3]uint32
	pad4, pad5           uintptr
	pad6                 [8]uint32
	memory, memoryARGB   uintptr // private native-owned scratch
	pad7                 [2]uintptr
}

// AuxStats mirrors WebPAuxStats: the diagnostics block the encoder fills
// when Picture.Stats is non-nil. 47 four-byte fields, 188 bytes.
type AuxStats struct {
	CodedSize     int32
	PSNR          [5]float32 // Y/U/V/All/Alpha
	BlockCount    [3]int32   // intra4/intra16/skipped macroblocks
	HeaderBytes   [2]int32   // header and mode-partition #0 sizes
	ResidualBytes [3][4]int32
	SegmentSize   [4]int32
	SegmentQuant  [4]int32
	SegmentLevel  [4]int32
	AlphaDataSize int32
	LayerDataSize int32

	// Lossless-only counters.
	LosslessFeatures   uint32 // bit0:prediction bit1:cross-color bit2:subtract-green bit3:palette
	HistogramBits      int32
	TransformBits      int32
	CacheBits          int32
	PaletteSize        int32
	LosslessSize       int32
	LosslessHdrSize    int32
	LosslessDataSize   int32
	CrossColorTransformBits int32

	pad [1]uint32
}

// BitstreamFeatures mirrors WebPBitstreamFeatures from decode.h. Plain
// value snapshot, no native-owned memory.
type BitstreamFeatures struct {
	Width        int32
	Height       int32
	HasAlpha     int32
	HasAnimation int32
	Format       int32 // 0=undefined/mixed, 1=lossy, 2=lossless
	pad          [5]uint32
}

// Expected struct sizes per pointer width. Re-derive these from the headers
// whenever the ABI version constants above change.
const (
	configSize   = 116
	auxStatsSize = 188
	featuresSize = 40

	pictureSize64 = 256
	pictureSize32 = 172
)

// verifyLayout compares the Go mirrors against the sizes the native ABI
// expects for this pointer width. Called once during load; a mismatch means
// a mirror drifted from the header and no native call can be trusted.
func verifyLayout(ptrSize uintptr) error {
	wantPicture := uintptr(pictureSize64)
	if ptrSize == 4 {
		wantPicture = pictureSize32
	}
	checks := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"WebPConfig", unsafe.Sizeof(Config{}), configSize},
		{"WebPPicture", unsafe.Sizeof(Picture{}), wantPicture},
		{"WebPAuxStats", unsafe.Sizeof(AuxStats{}), auxStatsSize},
		{"WebPBitstreamFeatures", unsafe.Sizeof(BitstreamFeatures{}), featuresSize},
	}
	for _, c := range checks {
		if c.got != c.want {
			return &LayoutError{Struct: c.name, Got: c.got, Want: c.want}
		}
	}
	return nil
}
