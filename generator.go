package fontface

// Generator creates Faces from one source description.
// Generators hold no state about the faces they created and are safe for
// concurrent use; every call produces an independent Face.
type Generator interface {
	// CreateFace creates a new Face using lib. If lib is nil, a private
	// Library owned only by the returned Face is created first.
	CreateFace(lib *Library) (*Face, error)
}

// CreateFunc is the source-specific creation step of a Generator.
// It runs with the library mutex held and must not lock it again.
type CreateFunc func(e Engine, state LibraryState) (RawFace, error)

// CreateFace is the creation path shared by every Generator:
//
//  1. If lib is nil, create a private Library configured by opts.
//  2. Acquire the library mutex.
//  3. Run create against the library's engine state.
//  4. Release the mutex.
//  5. Wrap the result in a new Face bound to lib.
//
// desc and index only label errors and log output; index is -1 when the
// source has no face index.
//
// On failure a *CreationError is returned, no Face exists, the mutex is not
// held, and a caller-supplied lib is left exactly as it was.
func CreateFace(lib *Library, desc string, index int, create CreateFunc, opts ...LibraryOption) (*Face, error) {
	if lib == nil {
		private, err := NewLibrary(opts...)
		if err != nil {
			return nil, &CreationError{Source: desc, Index: index, Err: err}
		}
		face, err := createWith(private, desc, index, create)
		// The face, if any, now owns the private library.
		_ = private.Release()
		return face, err
	}
	lib.copyCheck()
	return createWith(lib, desc, index, create)
}

func createWith(lib *Library, desc string, index int, create CreateFunc) (*Face, error) {
	raw, err := runLocked(lib, create)
	if err == nil && raw == nil {
		err = ErrNilFace
	}
	if err != nil {
		return nil, &CreationError{
			Engine: lib.core.engine.Name(),
			Source: desc,
			Index:  index,
			Err:    err,
		}
	}

	face := NewFace(raw, lib)
	Logger().Debug("fontface: face created", "library", lib.core.id, "engine", lib.core.engine.Name(), "source", desc, "index", index)
	return face, nil
}

// runLocked runs create with the library mutex held for exactly its duration.
func runLocked(lib *Library, create CreateFunc) (RawFace, error) {
	lib.Lock()
	defer lib.Unlock()
	return create(lib.core.engine, lib.core.state)
}

// funcGenerator adapts a CreateFunc into a Generator.
type funcGenerator struct {
	desc   string
	index  int
	create CreateFunc
	opts   []LibraryOption
}

// NewGenerator returns a Generator running fn as its creation step.
// desc names the source in errors and logs. This is the extension point for
// sources other than files and memory, such as streams or fs.FS entries.
func NewGenerator(desc string, fn CreateFunc, opts ...LibraryOption) Generator {
	return &funcGenerator{desc: desc, index: -1, create: fn, opts: opts}
}

// CreateFace implements Generator.
func (g *funcGenerator) CreateFace(lib *Library) (*Face, error) {
	return CreateFace(lib, g.desc, g.index, g.create, g.opts...)
}
