package fontface

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// sfntEngine implements Engine using golang.org/x/image/font/sfnt.
// Raw faces are *sfnt.Font. Collections (TTC/OTC) are supported.
type sfntEngine struct{}

// sfntLibrary is the global state of the sfnt engine. x/image has no global
// state of its own; the library keeps the set of faces it opened so that a
// face of another library is rejected on destruction.
type sfntLibrary struct {
	open map[*sfnt.Font]struct{}
}

// Name implements Engine.Name.
func (sfntEngine) Name() string { return "sfnt" }

// NewLibrary implements Engine.NewLibrary.
func (sfntEngine) NewLibrary() (LibraryState, error) {
	return &sfntLibrary{open: make(map[*sfnt.Font]struct{})}, nil
}

// DoneLibrary implements Engine.DoneLibrary.
func (sfntEngine) DoneLibrary(state LibraryState) error {
	lib, ok := state.(*sfntLibrary)
	if !ok {
		return fmt.Errorf("fontface: sfnt: unexpected library state %T", state)
	}
	if n := len(lib.open); n > 0 {
		return fmt.Errorf("fontface: sfnt: %d faces still open", n)
	}
	lib.open = nil
	return nil
}

// OpenFile implements Engine.OpenFile.
func (e sfntEngine) OpenFile(state LibraryState, path string, index int) (RawFace, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontface: failed to read font file: %w", err)
	}
	return e.OpenMemory(state, data, index)
}

// OpenMemory implements Engine.OpenMemory.
func (sfntEngine) OpenMemory(state LibraryState, data []byte, index int) (RawFace, error) {
	lib, ok := state.(*sfntLibrary)
	if !ok {
		return nil, fmt.Errorf("fontface: sfnt: unexpected library state %T", state)
	}

	// ParseCollection also accepts a single TTF/OTF, as a collection of one.
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("fontface: failed to parse font: %w", err)
	}
	if n := c.NumFonts(); index < 0 || index >= n {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrFaceIndex, index, n)
	}
	f, err := c.Font(index)
	if err != nil {
		return nil, fmt.Errorf("fontface: failed to parse face %d: %w", index, err)
	}

	lib.open[f] = struct{}{}
	return f, nil
}

// DoneFace implements Engine.DoneFace.
func (sfntEngine) DoneFace(state LibraryState, face RawFace) error {
	lib, ok := state.(*sfntLibrary)
	if !ok {
		return fmt.Errorf("fontface: sfnt: unexpected library state %T", state)
	}
	f, ok := face.(*sfnt.Font)
	if !ok {
		return fmt.Errorf("%w: sfnt got %T", ErrWrongFace, face)
	}
	if _, ok := lib.open[f]; !ok {
		return fmt.Errorf("%w: sfnt face not opened by this library", ErrWrongFace)
	}
	delete(lib.open, f)
	return nil
}

// Describe implements Describer.
func (sfntEngine) Describe(face RawFace) (FaceInfo, error) {
	f, ok := face.(*sfnt.Font)
	if !ok {
		return FaceInfo{}, fmt.Errorf("%w: sfnt got %T", ErrWrongFace, face)
	}

	var buf sfnt.Buffer
	info := FaceInfo{
		NumGlyphs:  f.NumGlyphs(),
		UnitsPerEm: int(f.UnitsPerEm()),
	}
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		info.Family = name
	}
	if name, err := f.Name(&buf, sfnt.NameIDSubfamily); err == nil {
		info.Style = name
	}
	return info, nil
}
