package native

import "github.com/ebitengine/purego"

// Dylib candidates, including the Homebrew prefixes for both Apple silicon
// and Intel installs. macOS processes are 64-bit only; the 32-bit table is
// present for the width dispatch but never selected.
var (
	libraryNames64 = []string{
		"libwebp.7.dylib",
		"libwebp.dylib",
		"/opt/homebrew/lib/libwebp.7.dylib",
		"/usr/local/lib/libwebp.7.dylib",
	}
	libraryNames32 = []string{"libwebp.7.dylib", "libwebp.dylib"}
)

func openLibrary(name string) (uintptr, error) {
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}
