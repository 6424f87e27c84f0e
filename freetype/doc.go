// Package freetype provides a fontface engine backed by the FreeType 2 C
// library, loaded at run time without cgo using purego.
//
// Importing the package registers the engine under the name "freetype":
//
//	import _ "github.com/gogpu/fontface/freetype"
//
//	lib, err := fontface.NewLibrary(fontface.WithEngine("freetype"))
//
// The shared library is searched for in the platform's usual locations
// (libfreetype.so.6, libfreetype.6.dylib). Set FONTFACE_FREETYPE_LIBRARY to
// a full path to override the search. If FreeType cannot be loaded,
// NewLibrary fails with an error wrapping ErrNotLoaded.
//
// Raw faces are *Face values wrapping an FT_Face; library state is a *Library
// wrapping an FT_Library. FreeType requires FT_New_Face and FT_Done_Face to be
// serialized per FT_Library and each FT_Face to be used by one thread at a
// time, which is the contract fontface.Library and fontface.Face enforce.
package freetype
