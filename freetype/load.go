//go:build (darwin || freebsd || linux) && (amd64 || arm64)

package freetype

import (
	"fmt"
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/gogpu/fontface"
	"github.com/gogpu/fontface/internal/platform"
)

// EnvLibrary names the environment variable overriding the library search.
const EnvLibrary = "FONTFACE_FREETYPE_LIBRARY"

// Versions of libfreetype's soname to try, newest first.
var libraryVersions = []int{6}

var (
	libFreeType uintptr
	libPath     string

	loadOnce sync.Once
	loadErr  error
)

// Load loads the FreeType shared library and registers all function
// bindings. It is safe to call multiple times; subsequent calls return the
// result of the first.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr != nil {
			fontface.Logger().Warn("freetype: load failed", "error", loadErr)
			loadErr = fmt.Errorf("%w: %w", ErrNotLoaded, loadErr)
		}
	})
	return loadErr
}

// IsLoaded reports whether FreeType has been successfully loaded.
func IsLoaded() bool {
	return Load() == nil
}

// LibraryPath returns the path FreeType was loaded from, empty if not loaded.
func LibraryPath() string {
	if !IsLoaded() {
		return ""
	}
	return libPath
}

func doLoad() error {
	var candidates []string
	if p := os.Getenv(EnvLibrary); p != "" {
		candidates = []string{p}
	} else {
		candidates = platform.Candidates("freetype", libraryVersions)
	}

	for _, path := range candidates {
		lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			continue
		}
		libFreeType = lib
		libPath = path
		break
	}
	if libFreeType == 0 {
		return fmt.Errorf("%w: tried %d candidates", ErrLibraryNotFound, len(candidates))
	}

	purego.RegisterLibFunc(&ftInitFreeType, libFreeType, "FT_Init_FreeType")
	purego.RegisterLibFunc(&ftDoneFreeType, libFreeType, "FT_Done_FreeType")
	purego.RegisterLibFunc(&ftLibraryVersion, libFreeType, "FT_Library_Version")
	purego.RegisterLibFunc(&ftNewFace, libFreeType, "FT_New_Face")
	purego.RegisterLibFunc(&ftNewMemoryFace, libFreeType, "FT_New_Memory_Face")
	purego.RegisterLibFunc(&ftDoneFace, libFreeType, "FT_Done_Face")

	if sym, err := purego.Dlsym(libFreeType, "FT_Error_String"); err == nil && sym != 0 {
		purego.RegisterFunc(&ftErrorString, sym)
	}

	fontface.Logger().Debug("freetype: loaded", "path", libPath)
	return nil
}
