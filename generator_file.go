package fontface

// GeneratorFile creates Faces from one face of a font file.
//
// The path and index are not validated until CreateFace: the file may appear,
// disappear or change between construction and use.
type GeneratorFile struct {
	path  string
	index int
	opts  []LibraryOption
}

// NewGeneratorFile returns a Generator for face index (zero-based) of the
// font file at path. opts configure the private Library created when
// CreateFace is called with nil.
func NewGeneratorFile(path string, index int, opts ...LibraryOption) *GeneratorFile {
	return &GeneratorFile{path: path, index: index, opts: opts}
}

// Path returns the font file path.
func (g *GeneratorFile) Path() string { return g.path }

// Index returns the face index within the file.
func (g *GeneratorFile) Index() int { return g.index }

// CreateFace implements Generator.
func (g *GeneratorFile) CreateFace(lib *Library) (*Face, error) {
	return CreateFace(lib, g.path, g.index, g.open, g.opts...)
}

// open runs under the library mutex.
func (g *GeneratorFile) open(e Engine, state LibraryState) (RawFace, error) {
	return e.OpenFile(state, g.path, g.index)
}
