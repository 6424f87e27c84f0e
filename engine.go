package fontface

import (
	"fmt"
	"slices"
	"sync"
)

// RawFace is an engine-specific face, such as *sfnt.Font or a FreeType
// FT_Face. It is owned by exactly one Face.
type RawFace any

// LibraryState is engine-specific global state, such as a FreeType
// FT_Library. It is owned by exactly one Library.
type LibraryState any

// Engine is an interface for font rasterization backends.
// This abstraction allows swapping the engine
// (golang.org/x/image, go-text/typesetting, FreeType) without changing
// how faces are owned and locked.
//
// Engine methods other than Name are always called with the owning Library's
// mutex held. Implementations do not lock anything themselves.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// NewLibrary creates the engine's global state.
	NewLibrary() (LibraryState, error)

	// DoneLibrary destroys global state created by NewLibrary.
	// All faces created from it have been destroyed by then.
	DoneLibrary(state LibraryState) error

	// OpenFile opens face index of the font file at path.
	OpenFile(state LibraryState, path string, index int) (RawFace, error)

	// OpenMemory opens face index of in-memory font data.
	// data is immutable and outlives the returned face.
	OpenMemory(state LibraryState, data []byte, index int) (RawFace, error)

	// DoneFace destroys a face created from state.
	DoneFace(state LibraryState, face RawFace) error
}

// Describer is implemented by engines that can report face metadata.
// Describe is called with the face's own lock held, never the library lock.
type Describer interface {
	Describe(face RawFace) (FaceInfo, error)
}

// FaceInfo holds descriptive metadata of one engine face.
type FaceInfo struct {
	// Family is the font family name, empty if unavailable.
	Family string

	// Style is the subfamily name (e.g. "Bold Italic"), empty if unavailable.
	Style string

	// NumGlyphs is the number of glyphs in the face, 0 if unknown.
	NumGlyphs int

	// UnitsPerEm is the design grid size.
	UnitsPerEm int

	// NumFaces is the number of faces in the source the face was opened from.
	NumFaces int
}

// defaultEngineName is the name of the default engine.
const defaultEngineName = "sfnt"

var (
	enginesMu sync.RWMutex
	// engineRegistry holds registered engines.
	// The default engine is "sfnt" (golang.org/x/image).
	engineRegistry = map[string]Engine{
		"sfnt":   sfntEngine{},
		"gotext": gotextEngine{},
	}
)

// RegisterEngine registers a font engine under its Name.
// Packages providing engines call this from init.
func RegisterEngine(e Engine) error {
	enginesMu.Lock()
	defer enginesMu.Unlock()

	name := e.Name()
	if _, ok := engineRegistry[name]; ok {
		return fmt.Errorf("%w: %q", ErrEngineExists, name)
	}
	engineRegistry[name] = e
	return nil
}

// LookupEngine returns the engine registered under name.
func LookupEngine(name string) (Engine, error) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()

	e, ok := engineRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return e, nil
}

// Engines returns the sorted names of all registered engines.
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()

	names := make([]string, 0, len(engineRegistry))
	for name := range engineRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// unregisterEngine removes an engine. Used by tests.
func unregisterEngine(name string) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	delete(engineRegistry, name)
}
