// Package platform knows how shared libraries are named and where they are
// installed on each operating system.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	LibraryPrefix, LibraryExtension = naming(runtime.GOOS)
}

func naming(goos string) (prefix, ext string) {
	switch goos {
	case "darwin":
		return "lib", ".dylib"
	case "windows":
		return "", ".dll"
	default: // linux, freebsd, etc.
		return "lib", ".so"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("freetype", 6) -> "libfreetype.so.6"
//   - macOS:   FormatLibraryName("freetype", 6) -> "libfreetype.6.dylib"
//   - Windows: FormatLibraryName("freetype", 6) -> "freetype-6.dll"
func FormatLibraryName(name string, version int) string {
	return formatLibraryName(runtime.GOOS, name, version)
}

func formatLibraryName(goos, name string, version int) string {
	prefix, ext := naming(goos)
	switch goos {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", prefix, name, version, ext)
		}
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", prefix, name, version, ext)
		}
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", prefix, name, ext, version)
		}
	}
	return prefix + name + ext
}

// LibrarySearchPaths returns platform-specific library search paths,
// environment overrides first.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib64",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",              // Apple Silicon
			"/usr/local/lib",                 // Intel
			"/opt/homebrew/opt/freetype/lib", // Homebrew FreeType
			"/usr/local/opt/freetype/lib",    // Homebrew FreeType (Intel)
			"/opt/X11/lib",                   // XQuartz
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// Candidates returns the file names to try for name, most specific first:
// every versioned name and the unversioned name inside each search path,
// then the bare names for the system loader to resolve.
func Candidates(name string, versions []int) []string {
	var names []string
	for _, ver := range versions {
		names = append(names, FormatLibraryName(name, ver))
	}
	names = append(names, FormatLibraryName(name, 0))

	var out []string
	for _, dir := range LibrarySearchPaths() {
		for _, n := range names {
			out = append(out, filepath.Join(dir, n))
		}
	}
	return append(out, names...)
}
