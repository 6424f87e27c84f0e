// Package fontface provides reference-counted, lockable ownership of font
// engine faces for use from many goroutines.
//
// # Overview
//
// Font engines such as FreeType expose an opaque per-font face and a global
// library object. Their threading rules are strict:
//
//   - Creating or destroying a face must be serialized against the library
//   - A face used from more than one goroutine must be serialized per face
//
// fontface models the library as a [Library] (one mutex, shared by every face
// created through it) and the face as a [Face] (one engine face plus a private
// mutex). Faces are produced by a [Generator], which takes the library lock,
// runs a source-specific [CreateFunc] and wraps the result.
//
// # Quick Start
//
//	lib, err := fontface.NewLibrary()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Release()
//
//	face, err := fontface.NewGeneratorFile("Roboto-Regular.ttf", 0).CreateFace(lib)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer face.Release()
//
//	face.Lock()
//	f := face.Handle().(*sfnt.Font)
//	// ... use f ...
//	face.Unlock()
//
// # Engines
//
// The engine is pluggable through the [Engine] interface and a named registry:
//   - "sfnt" (default): golang.org/x/image/font/sfnt
//   - "gotext": github.com/go-text/typesetting/font
//   - "freetype": the FreeType C library, registered by importing
//     github.com/gogpu/fontface/freetype
//
// # Ownership
//
// [Library] and [Face] are reference counted. Retain adds an owner, Release
// drops one, and the engine resources are destroyed when the last owner is
// gone. A Face keeps its Library alive.
package fontface
