package freetype

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/gogpu/fontface"
)

// EngineName is the registry name of the FreeType engine.
const EngineName = "freetype"

// Function bindings, registered by Load.
var (
	ftInitFreeType   func(alibrary *unsafe.Pointer) int32
	ftDoneFreeType   func(library unsafe.Pointer) int32
	ftLibraryVersion func(library unsafe.Pointer, major, minor, patch *int32)
	ftNewFace        func(library unsafe.Pointer, path string, faceIndex int, aface *unsafe.Pointer) int32
	ftNewMemoryFace  func(library unsafe.Pointer, base *byte, size int, faceIndex int, aface *unsafe.Pointer) int32
	ftDoneFace       func(face unsafe.Pointer) int32

	// Optional: FreeType 2.10+.
	ftErrorString func(code int32) string
)

func init() {
	if err := fontface.RegisterEngine(Engine{}); err != nil {
		panic(err)
	}
}

// Library is the FreeType engine's library state: one FT_Library.
type Library struct {
	ptr  unsafe.Pointer
	open map[*Face]struct{}
}

// Pointer returns the FT_Library. Calls into FreeType that use it must hold
// the owning fontface.Library's lock.
func (l *Library) Pointer() unsafe.Pointer { return l.ptr }

// Face is the FreeType engine's raw face: one FT_Face.
type Face struct {
	ptr unsafe.Pointer

	// pinner keeps the font data of memory faces in place for FreeType,
	// which reads it for the lifetime of the FT_Face.
	pinner runtime.Pinner
}

// Pointer returns the FT_Face. Calls into FreeType that use it must hold the
// owning fontface.Face's lock.
func (f *Face) Pointer() unsafe.Pointer { return f.ptr }

// Engine implements fontface.Engine using FreeType.
type Engine struct{}

// Name implements fontface.Engine.Name.
func (Engine) Name() string { return EngineName }

// NewLibrary implements fontface.Engine.NewLibrary. It loads the shared
// library on first use.
func (Engine) NewLibrary() (fontface.LibraryState, error) {
	if err := Load(); err != nil {
		return nil, err
	}

	lib := &Library{open: make(map[*Face]struct{})}
	if err := newError(ftInitFreeType(&lib.ptr), "FT_Init_FreeType"); err != nil {
		return nil, err
	}
	return lib, nil
}

// DoneLibrary implements fontface.Engine.DoneLibrary.
func (Engine) DoneLibrary(state fontface.LibraryState) error {
	lib, err := library(state)
	if err != nil {
		return err
	}
	if n := len(lib.open); n > 0 {
		return fmt.Errorf("freetype: %d faces still open", n)
	}
	err = newError(ftDoneFreeType(lib.ptr), "FT_Done_FreeType")
	lib.ptr = nil
	return err
}

// OpenFile implements fontface.Engine.OpenFile.
func (Engine) OpenFile(state fontface.LibraryState, path string, index int) (fontface.RawFace, error) {
	lib, err := library(state)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", fontface.ErrFaceIndex, index)
	}

	f := &Face{}
	if err := faceError(ftNewFace(lib.ptr, path, index, &f.ptr), "FT_New_Face"); err != nil {
		return nil, err
	}
	lib.open[f] = struct{}{}
	return f, nil
}

// OpenMemory implements fontface.Engine.OpenMemory.
func (Engine) OpenMemory(state fontface.LibraryState, data []byte, index int) (fontface.RawFace, error) {
	lib, err := library(state)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fontface.ErrEmptyFontData
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", fontface.ErrFaceIndex, index)
	}

	f := &Face{}
	f.pinner.Pin(&data[0])
	if err := faceError(ftNewMemoryFace(lib.ptr, &data[0], len(data), index, &f.ptr), "FT_New_Memory_Face"); err != nil {
		f.pinner.Unpin()
		return nil, err
	}
	lib.open[f] = struct{}{}
	return f, nil
}

// DoneFace implements fontface.Engine.DoneFace.
func (Engine) DoneFace(state fontface.LibraryState, face fontface.RawFace) error {
	lib, err := library(state)
	if err != nil {
		return err
	}
	f, ok := face.(*Face)
	if !ok {
		return fmt.Errorf("%w: freetype got %T", fontface.ErrWrongFace, face)
	}
	if _, ok := lib.open[f]; !ok {
		return fmt.Errorf("%w: freetype face not opened by this library", fontface.ErrWrongFace)
	}

	err = newError(ftDoneFace(f.ptr), "FT_Done_Face")
	delete(lib.open, f)
	f.ptr = nil
	f.pinner.Unpin()
	return err
}

// Describe implements fontface.Describer by reading the public fields of
// FT_FaceRec.
func (Engine) Describe(face fontface.RawFace) (fontface.FaceInfo, error) {
	f, ok := face.(*Face)
	if !ok || f.ptr == nil {
		return fontface.FaceInfo{}, fmt.Errorf("%w: freetype got %T", fontface.ErrWrongFace, face)
	}

	rec := (*faceRec)(f.ptr)
	return fontface.FaceInfo{
		Family:     goString(rec.familyName),
		Style:      goString(rec.styleName),
		NumGlyphs:  rec.numGlyphs,
		UnitsPerEm: int(rec.unitsPerEM),
		NumFaces:   rec.numFaces,
	}, nil
}

// Version returns the FreeType version in use by lib, which must have been
// created with the FreeType engine. It holds the library lock for the call.
func Version(lib *fontface.Library) (major, minor, patch int, err error) {
	lib.Lock()
	defer lib.Unlock()

	state, err := library(lib.State())
	if err != nil {
		return 0, 0, 0, err
	}
	var ma, mi, pa int32
	ftLibraryVersion(state.ptr, &ma, &mi, &pa)
	return int(ma), int(mi), int(pa), nil
}

func library(state fontface.LibraryState) (*Library, error) {
	lib, ok := state.(*Library)
	if !ok || lib.ptr == nil {
		return nil, fmt.Errorf("freetype: unexpected library state %T", state)
	}
	return lib, nil
}

// faceError converts a face creation failure, mapping an invalid argument
// (FreeType's answer to an out-of-range face index) to fontface.ErrFaceIndex.
func faceError(code int32, op string) error {
	err := newError(code, op)
	if code == ErrCodeInvalidArgument {
		return fmt.Errorf("%w: %w", fontface.ErrFaceIndex, err)
	}
	return err
}

// faceRec mirrors the leading public fields of FT_FaceRec on LP64 platforms,
// where FT_Long is 64 bits.
type faceRec struct {
	numFaces       int
	faceIndex      int
	faceFlags      int
	styleFlags     int
	numGlyphs      int
	familyName     *byte
	styleName      *byte
	numFixedSizes  int32
	availableSizes unsafe.Pointer
	numCharmaps    int32
	charmaps       unsafe.Pointer
	generic        [2]unsafe.Pointer
	bbox           [4]int
	unitsPerEM     uint16
}

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
