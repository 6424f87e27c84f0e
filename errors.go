package fontface

import (
	"errors"
	"fmt"
)

// Sentinel errors for fontface package.
var (
	// ErrCreationFailure matches every *CreationError via errors.Is.
	ErrCreationFailure = errors.New("fontface: face creation failed")

	// ErrEmptyFontData is returned when a memory source has no data.
	ErrEmptyFontData = errors.New("fontface: empty font data")

	// ErrFaceIndex is returned by engines when the face index is outside
	// the range of faces in the source.
	ErrFaceIndex = errors.New("fontface: face index out of range")

	// ErrNilFace is returned when a creation step reports success but
	// yields no engine face.
	ErrNilFace = errors.New("fontface: engine returned nil face")

	// ErrUnknownEngine is returned when no engine is registered under a name.
	ErrUnknownEngine = errors.New("fontface: unknown engine")

	// ErrEngineExists is returned when registering a name twice.
	ErrEngineExists = errors.New("fontface: engine already registered")

	// ErrNotDescribable is returned by Face.Info when the engine does not
	// implement Describer.
	ErrNotDescribable = errors.New("fontface: engine cannot describe faces")

	// ErrReleased is carried by the panic raised when a Face or Library is
	// used after its last owner released it.
	ErrReleased = errors.New("fontface: use of released object")

	// ErrWrongFace is returned by engines handed a RawFace of another engine.
	ErrWrongFace = errors.New("fontface: raw face does not belong to engine")
)

// CreationError reports that a generator could not produce a face.
// No Face exists when a CreationError is returned.
type CreationError struct {
	Engine string // engine name, empty if no library could be created
	Source string // generator description, such as the file path
	Index  int    // requested face index, -1 if not applicable
	Err    error  // underlying cause
}

func (e *CreationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("fontface: create face %s[%d] (engine %q): %v", e.Source, e.Index, e.Engine, e.Err)
	}
	return fmt.Sprintf("fontface: create face %s (engine %q): %v", e.Source, e.Engine, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CreationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCreationFailure.
func (e *CreationError) Is(target error) bool { return target == ErrCreationFailure }

// misuse panics with an error wrapping ErrReleased.
func misuse(what string) {
	panic(fmt.Errorf("%w: %s", ErrReleased, what))
}
