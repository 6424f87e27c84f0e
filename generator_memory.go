package fontface

import "fmt"

// GeneratorMemory creates Faces from one face of in-memory font data.
// The data is copied once by NewGeneratorMemory and shared, read-only, by
// every Face created from the generator.
type GeneratorMemory struct {
	data  []byte
	index int
	opts  []LibraryOption
}

// NewGeneratorMemory returns a Generator for face index of data (TTF, OTF,
// TTC or OTC). The data slice is copied internally and can be reused after
// this call.
func NewGeneratorMemory(data []byte, index int, opts ...LibraryOption) *GeneratorMemory {
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	return &GeneratorMemory{data: dataCopy, index: index, opts: opts}
}

// Index returns the face index within the data.
func (g *GeneratorMemory) Index() int { return g.index }

// Size returns the size of the font data in bytes.
func (g *GeneratorMemory) Size() int { return len(g.data) }

// CreateFace implements Generator.
func (g *GeneratorMemory) CreateFace(lib *Library) (*Face, error) {
	return CreateFace(lib, g.String(), g.index, g.open, g.opts...)
}

// String describes the source as used in errors.
func (g *GeneratorMemory) String() string {
	return fmt.Sprintf("memory(%d bytes)", len(g.data))
}

// open runs under the library mutex.
func (g *GeneratorMemory) open(e Engine, state LibraryState) (RawFace, error) {
	if len(g.data) == 0 {
		return nil, ErrEmptyFontData
	}
	return e.OpenMemory(state, g.data, g.index)
}
