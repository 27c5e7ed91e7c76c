package native

// Metric selects the distortion measure computed by the native library.
type Metric int32

const (
	MetricPSNR Metric = iota
	MetricSSIM
	MetricLSIM
)

func (m Metric) String() string {
	switch m {
	case MetricPSNR:
		return "PSNR"
	case MetricSSIM:
		return "SSIM"
	case MetricLSIM:
		return "LSIM"
	default:
		return "unknown"
	}
}

// Distortion imports two equally-sized RGBA buffers into ARGB picture
// records and computes the per-channel distortion between them. The result
// order is fixed: channel0, channel1, channel2, alpha, aggregate. Both
// native records are freed whatever the outcome. The caller has already
// checked that dimensions match; this function trusts width/height.
func Distortion(src, ref uintptr, width, height, stride int, metric Metric) ([5]float32, error) {
	var result [5]float32

	if err := Available(); err != nil {
		return result, err
	}

	srcPic, err := newImportedPicture(src, width, height, stride)
	if err != nil {
		return result, err
	}
	defer srcPic.free()

	refPic, err := newImportedPicture(ref, width, height, stride)
	if err != nil {
		return result, err
	}
	defer refPic.free()

	if webpPictureDistortion(srcPic, refPic, int32(metric), &result[0]) == 0 {
		return result, ErrInvalidParam
	}
	return result, nil
}
