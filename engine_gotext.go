package fontface

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
)

// gotextEngine implements Engine using github.com/go-text/typesetting/font.
// Raw faces are *font.Face, ready for shaping.HarfbuzzShaper.
//
// A *font.Face carries glyph caches and is NOT safe for concurrent use,
// which is exactly what the per-face lock of Face is for.
type gotextEngine struct{}

// gotextLibrary is the global state of the gotext engine.
type gotextLibrary struct {
	open map[*font.Face]struct{}
}

// Name implements Engine.Name.
func (gotextEngine) Name() string { return "gotext" }

// NewLibrary implements Engine.NewLibrary.
func (gotextEngine) NewLibrary() (LibraryState, error) {
	return &gotextLibrary{open: make(map[*font.Face]struct{})}, nil
}

// DoneLibrary implements Engine.DoneLibrary.
func (gotextEngine) DoneLibrary(state LibraryState) error {
	lib, ok := state.(*gotextLibrary)
	if !ok {
		return fmt.Errorf("fontface: gotext: unexpected library state %T", state)
	}
	if n := len(lib.open); n > 0 {
		return fmt.Errorf("fontface: gotext: %d faces still open", n)
	}
	lib.open = nil
	return nil
}

// OpenFile implements Engine.OpenFile.
func (e gotextEngine) OpenFile(state LibraryState, path string, index int) (RawFace, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontface: failed to read font file: %w", err)
	}
	return e.OpenMemory(state, data, index)
}

// OpenMemory implements Engine.OpenMemory.
func (gotextEngine) OpenMemory(state LibraryState, data []byte, index int) (RawFace, error) {
	lib, ok := state.(*gotextLibrary)
	if !ok {
		return nil, fmt.Errorf("fontface: gotext: unexpected library state %T", state)
	}

	// ParseTTC handles single fonts too, returning one face.
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fontface: failed to parse font: %w", err)
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrFaceIndex, index, len(faces))
	}

	f := faces[index]
	lib.open[f] = struct{}{}
	return f, nil
}

// DoneFace implements Engine.DoneFace.
func (gotextEngine) DoneFace(state LibraryState, face RawFace) error {
	lib, ok := state.(*gotextLibrary)
	if !ok {
		return fmt.Errorf("fontface: gotext: unexpected library state %T", state)
	}
	f, ok := face.(*font.Face)
	if !ok {
		return fmt.Errorf("%w: gotext got %T", ErrWrongFace, face)
	}
	if _, ok := lib.open[f]; !ok {
		return fmt.Errorf("%w: gotext face not opened by this library", ErrWrongFace)
	}
	delete(lib.open, f)
	return nil
}

// Describe implements Describer.
// Only the design grid is reported; go-text keeps names in the loader.
func (gotextEngine) Describe(face RawFace) (FaceInfo, error) {
	f, ok := face.(*font.Face)
	if !ok {
		return FaceInfo{}, fmt.Errorf("%w: gotext got %T", ErrWrongFace, face)
	}
	return FaceInfo{UnitsPerEm: int(f.Upem())}, nil
}
