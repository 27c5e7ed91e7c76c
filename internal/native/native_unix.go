//go:build linux || freebsd

package native

import "github.com/ebitengine/purego"

// Soname candidates. The dynamic loader only resolves an ELF matching the
// process's word size, so both width tables carry the same names here.
var (
	libraryNames64 = []string{"libwebp.so.7", "libwebp.so"}
	libraryNames32 = []string{"libwebp.so.7", "libwebp.so"}
)

func openLibrary(name string) (uintptr, error) {
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}
