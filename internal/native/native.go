// Package native is the boundary layer between Go and the libwebp shared
// library. It mirrors the native struct layouts, resolves the width-correct
// entry points once at startup, and wraps the unmanaged ownership rules
// (native-owned picture planes, callback-driven output capture) behind
// plain Go functions with explicit errors.
//
// All calls are synchronous and block the calling goroutine until the
// native routine returns; there is no cancellation.
package native

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	loadOnce sync.Once
	loadErr  error
	lib      uintptr
	libName  string
)

// Entry points resolved from the shared library. Registered once during
// load; the table is read-only afterwards.
var (
	webpGetEncoderVersion    func() int32
	webpGetDecoderVersion    func() int32
	webpConfigInitInternal   func(*Config, int32, float32, int32) int32
	webpConfigLosslessPreset func(*Config, int32) int32
	webpValidateConfig       func(*Config) int32
	webpPictureInitInternal  func(*Picture, int32) int32
	webpPictureImportRGBA    func(*Picture, uintptr, int32) int32
	webpEncode               func(*Config, *Picture) int32
	webpPictureFree          func(*Picture)
	webpPictureDistortion    func(*Picture, *Picture, int32, *float32) int32
	webpGetFeaturesInternal  func(uintptr, uint, *BitstreamFeatures, int32) int32
	webpGetInfo              func(uintptr, uint, *int32, *int32) int32
	webpDecodeRGBAInto       func(uintptr, uint, uintptr, uint, int32) uintptr
	webpEncodeRGBA           func(uintptr, int32, int32, int32, float32, *uintptr) uint
	webpEncodeLosslessRGBA   func(uintptr, int32, int32, int32, *uintptr) uint
	webpFree                 func(uintptr)
)

// libraryCandidates selects the shared-library name table matching the
// process's pointer width. Two parallel binaries exist on platforms that
// ship width-specific builds; the rest of the package never sees the split.
func libraryCandidates() ([]string, error) {
	switch ptr := unsafe.Sizeof(uintptr(0)); ptr {
	case 8:
		return libraryNames64, nil
	case 4:
		return libraryNames32, nil
	default:
		return nil, &PlatformError{PointerSize: ptr}
	}
}

// Available loads and binds the native library on first use and reports
// whether it can be called. Every public entry point checks this before
// touching the function table.
func Available() error {
	loadOnce.Do(load)
	return loadErr
}

// LibraryName returns the resolved shared-library name. Empty until a
// successful load.
func LibraryName() string {
	loadOnce.Do(load)
	return libName
}

func load() {
	if loadErr = verifyLayout(unsafe.Sizeof(uintptr(0))); loadErr != nil {
		return
	}

	names, err := libraryCandidates()
	if err != nil {
		loadErr = err
		return
	}

	var openErr error
	for _, name := range names {
		lib, openErr = openLibrary(name)
		if openErr == nil {
			libName = name
			break
		}
	}
	if lib == 0 {
		loadErr = fmt.Errorf("native: loading libwebp (tried %v): %w", names, openErr)
		return
	}

	// RegisterLibFunc panics on a missing symbol; an incomplete build of
	// the library is reported as a load error, not a crash.
	defer func() {
		if r := recover(); r != nil {
			loadErr = fmt.Errorf("native: binding %s: %v", libName, r)
		}
	}()

	purego.RegisterLibFunc(&webpGetEncoderVersion, lib, "WebPGetEncoderVersion")
	purego.RegisterLibFunc(&webpGetDecoderVersion, lib, "WebPGetDecoderVersion")
	purego.RegisterLibFunc(&webpConfigInitInternal, lib, "WebPConfigInitInternal")
	purego.RegisterLibFunc(&webpConfigLosslessPreset, lib, "WebPConfigLosslessPreset")
	purego.RegisterLibFunc(&webpValidateConfig, lib, "WebPValidateConfig")
	purego.RegisterLibFunc(&webpPictureInitInternal, lib, "WebPPictureInitInternal")
	purego.RegisterLibFunc(&webpPictureImportRGBA, lib, "WebPPictureImportRGBA")
	purego.RegisterLibFunc(&webpEncode, lib, "WebPEncode")
	purego.RegisterLibFunc(&webpPictureFree, lib, "WebPPictureFree")
	purego.RegisterLibFunc(&webpPictureDistortion, lib, "WebPPictureDistortion")
	purego.RegisterLibFunc(&webpGetFeaturesInternal, lib, "WebPGetFeaturesInternal")
	purego.RegisterLibFunc(&webpGetInfo, lib, "WebPGetInfo")
	purego.RegisterLibFunc(&webpDecodeRGBAInto, lib, "WebPDecodeRGBAInto")
	purego.RegisterLibFunc(&webpEncodeRGBA, lib, "WebPEncodeRGBA")
	purego.RegisterLibFunc(&webpEncodeLosslessRGBA, lib, "WebPEncodeLosslessRGBA")
	purego.RegisterLibFunc(&webpFree, lib, "WebPFree")

	// Probe the encoder ABI once so a version mismatch fails fast here
	// instead of surfacing as a confusing per-call init failure.
	var probe Config
	if webpConfigInitInternal(&probe, int32(PresetDefault), 75, encoderABIVersion) == 0 {
		loadErr = ErrVersionMismatch
		lib = 0
	}
}
