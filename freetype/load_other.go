//go:build !((darwin || freebsd || linux) && (amd64 || arm64))

package freetype

import (
	"fmt"
	"runtime"
)

// EnvLibrary names the environment variable overriding the library search.
const EnvLibrary = "FONTFACE_FREETYPE_LIBRARY"

// Load reports that FreeType bindings are unavailable on this platform.
func Load() error {
	return fmt.Errorf("%w: unsupported platform %s/%s", ErrNotLoaded, runtime.GOOS, runtime.GOARCH)
}

// IsLoaded always returns false on this platform.
func IsLoaded() bool { return false }

// LibraryPath always returns "" on this platform.
func LibraryPath() string { return "" }
