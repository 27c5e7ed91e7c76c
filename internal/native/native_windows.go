package native

import "golang.org/x/sys/windows"

// DLL candidates. Width-specific binaries ship under distinct names on
// Windows; the dispatcher picks the table matching the process's pointer
// width so a 32-bit process never maps the 64-bit DLL.
var (
	libraryNames64 = []string{"libwebp_x64.dll", "libwebp.dll"}
	libraryNames32 = []string{"libwebp_x86.dll", "libwebp.dll"}
)

func openLibrary(name string) (uintptr, error) {
	h, err := windows.LoadLibrary(name)
	return uintptr(h), err
}
