package native

import (
	"errors"
	"fmt"
)

// EncodingError is the WebPEncodingError code a failed encode leaves in
// Picture.ErrorCode. The code is surfaced verbatim; callers can compare
// against the VP8Enc* constants or just report Error().
type EncodingError int32

const (
	EncOK EncodingError = iota
	EncErrOutOfMemory
	EncErrBitstreamOutOfMemory
	EncErrNullParameter
	EncErrInvalidConfiguration
	EncErrBadDimension
	EncErrPartition0Overflow
	EncErrPartitionOverflow
	EncErrBadWrite
	EncErrFileTooBig
	EncErrUserAbort
)

var encErrNames = map[EncodingError]string{
	EncErrOutOfMemory:          "OUT_OF_MEMORY",
	EncErrBitstreamOutOfMemory: "BITSTREAM_OUT_OF_MEMORY",
	EncErrNullParameter:        "NULL_PARAMETER",
	EncErrInvalidConfiguration: "INVALID_CONFIGURATION",
	EncErrBadDimension:         "BAD_DIMENSION",
	EncErrPartition0Overflow:   "PARTITION0_OVERFLOW",
	EncErrPartitionOverflow:    "PARTITION_OVERFLOW",
	EncErrBadWrite:             "BAD_WRITE",
	EncErrFileTooBig:           "FILE_TOO_BIG",
	EncErrUserAbort:            "USER_ABORT",
}

// Name returns the native error code's symbolic name.
func (e EncodingError) Name() string {
	if n, ok := encErrNames[e]; ok {
		return n
	}
	return fmt.Sprintf("VP8_ENC_ERROR_%d", int32(e))
}

func (e EncodingError) Error() string {
	return "native: encode failed: " + e.Name()
}

// Is maps native out-of-memory codes onto ErrOutOfMemory so callers can use
// errors.Is without inspecting codes.
func (e EncodingError) Is(target error) bool {
	if target == ErrOutOfMemory {
		return e == EncErrOutOfMemory || e == EncErrBitstreamOutOfMemory
	}
	return false
}

// VP8Status is the VP8StatusCode returned by the decode-side entry points
// (feature probe, decode). Each status maps to its own sentinel error so
// failure modes are never collapsed.
type VP8Status int32

const (
	StatusOK VP8Status = iota
	StatusOutOfMemory
	StatusInvalidParam
	StatusBitstreamError
	StatusUnsupportedFeature
	StatusSuspended
	StatusUserAbort
	StatusNotEnoughData
)

var statusNames = map[VP8Status]string{
	StatusOK:                 "OK",
	StatusOutOfMemory:        "OUT_OF_MEMORY",
	StatusInvalidParam:       "INVALID_PARAM",
	StatusBitstreamError:     "BITSTREAM_ERROR",
	StatusUnsupportedFeature: "UNSUPPORTED_FEATURE",
	StatusSuspended:          "SUSPENDED",
	StatusUserAbort:          "USER_ABORT",
	StatusNotEnoughData:      "NOT_ENOUGH_DATA",
}

// Name returns the status code's symbolic name.
func (s VP8Status) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("VP8_STATUS_%d", int32(s))
}

// Sentinel errors for the decode-side status codes and the bridge's own
// failure categories.
var (
	ErrOutOfMemory        = errors.New("native: out of memory")
	ErrInvalidParam       = errors.New("native: invalid parameter")
	ErrBitstream          = errors.New("native: bitstream error")
	ErrUnsupportedFeature = errors.New("native: unsupported feature")
	ErrSuspended          = errors.New("native: operation suspended")
	ErrUserAbort          = errors.New("native: user abort")
	ErrNotEnoughData      = errors.New("native: not enough data")

	// ErrVersionMismatch means the library's compiled ABI disagrees with
	// the bridge's expected version stamp.
	ErrVersionMismatch = errors.New("native: libwebp ABI version mismatch")

	// ErrInvalidConfig means WebPValidateConfig rejected the configuration.
	ErrInvalidConfig = errors.New("native: invalid encoder configuration")
)

// statusErr converts a VP8Status into its sentinel error, nil for StatusOK.
func statusErr(s VP8Status) error {
	switch s {
	case StatusOK:
		return nil
	case StatusOutOfMemory:
		return ErrOutOfMemory
	case StatusInvalidParam:
		return ErrInvalidParam
	case StatusBitstreamError:
		return ErrBitstream
	case StatusUnsupportedFeature:
		return ErrUnsupportedFeature
	case StatusSuspended:
		return ErrSuspended
	case StatusUserAbort:
		return ErrUserAbort
	case StatusNotEnoughData:
		return ErrNotEnoughData
	default:
		return fmt.Errorf("native: decode failed: %s", s.Name())
	}
}

// LayoutError reports a struct mirror whose size disagrees with the native
// ABI for this platform.
type LayoutError struct {
	Struct string
	Got    uintptr
	Want   uintptr
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("native: %s layout is %d bytes, ABI expects %d", e.Struct, e.Got, e.Want)
}

// PlatformError reports an unsupported native pointer width.
type PlatformError struct {
	PointerSize uintptr
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("native: unsupported pointer width %d bytes (want 4 or 8)", e.PointerSize)
}
