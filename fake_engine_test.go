package fontface

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errFakeMissing = errors.New("fake: no such source")

// fakeEngine is an Engine test double. It counts calls and records every
// call made while the owning library mutex was not held, or while another
// call on the same library was still running.
type fakeEngine struct {
	mu         sync.Mutex
	libsNew    int
	libsDone   int
	facesNew   int
	facesDone  int
	violations []string

	// missing lists sources that fail to open.
	missing map[string]bool

	// delay is slept inside OpenFile to widen race windows.
	delay time.Duration
}

type fakeLib struct {
	owner  atomic.Pointer[Library]
	active atomic.Int32
	open   map[*fakeFace]bool
}

type fakeFace struct {
	source string
	index  int
	lib    *fakeLib
}

func newFakeEngine(missing ...string) *fakeEngine {
	e := &fakeEngine{missing: make(map[string]bool)}
	for _, m := range missing {
		e.missing[m] = true
	}
	return e
}

// mustLibrary creates a Library on e, watched for lock violations.
func mustLibrary(t *testing.T, e *fakeEngine) *Library {
	t.Helper()
	lib, err := NewLibrary(WithEngineInstance(e))
	if err != nil {
		t.Fatalf("NewLibrary() = %v", err)
	}
	e.watch(lib)
	return lib
}

// watch binds the engine state of lib to lib, enabling the held check.
func (e *fakeEngine) watch(lib *Library) {
	lib.State().(*fakeLib).owner.Store(lib)
}

// create returns a CreateFunc opening source through the engine.
func (e *fakeEngine) create(source string) CreateFunc {
	return func(eng Engine, state LibraryState) (RawFace, error) {
		return eng.OpenFile(state, source, 0)
	}
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) NewLibrary() (LibraryState, error) {
	e.mu.Lock()
	e.libsNew++
	e.mu.Unlock()
	return &fakeLib{open: make(map[*fakeFace]bool)}, nil
}

func (e *fakeEngine) DoneLibrary(state LibraryState) error {
	lib := state.(*fakeLib)
	defer e.enter(lib, "DoneLibrary")()
	if len(lib.open) != 0 {
		e.violate("DoneLibrary with %d open faces", len(lib.open))
	}

	e.mu.Lock()
	e.libsDone++
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) OpenFile(state LibraryState, path string, index int) (RawFace, error) {
	lib := state.(*fakeLib)
	defer e.enter(lib, "OpenFile")()

	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if e.missing[path] {
		return nil, fmt.Errorf("%w: %s", errFakeMissing, path)
	}
	if index != 0 {
		return nil, fmt.Errorf("%w: %d", ErrFaceIndex, index)
	}

	f := &fakeFace{source: path, index: index, lib: lib}
	lib.open[f] = true

	e.mu.Lock()
	e.facesNew++
	e.mu.Unlock()
	return f, nil
}

func (e *fakeEngine) OpenMemory(state LibraryState, data []byte, index int) (RawFace, error) {
	return e.OpenFile(state, string(data), index)
}

func (e *fakeEngine) DoneFace(state LibraryState, face RawFace) error {
	lib := state.(*fakeLib)
	defer e.enter(lib, "DoneFace")()

	f, ok := face.(*fakeFace)
	if !ok {
		return ErrWrongFace
	}
	if f.lib != lib {
		e.violate("DoneFace of %s with foreign library", f.source)
	}
	if !lib.open[f] {
		e.violate("DoneFace of %s twice", f.source)
	}
	delete(lib.open, f)

	e.mu.Lock()
	e.facesDone++
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Describe(face RawFace) (FaceInfo, error) {
	f, ok := face.(*fakeFace)
	if !ok {
		return FaceInfo{}, ErrWrongFace
	}
	return FaceInfo{Family: f.source, NumFaces: 1}, nil
}

// enter records lock violations for a call on lib and returns its exit func.
func (e *fakeEngine) enter(lib *fakeLib, op string) func() {
	if n := lib.active.Add(1); n != 1 {
		e.violate("%s overlapped with %d other calls", op, n-1)
	}
	if owner := lib.owner.Load(); owner != nil && !owner.core.held.Load() {
		e.violate("%s without library lock", op)
	}
	return func() { lib.active.Add(-1) }
}

func (e *fakeEngine) violate(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.violations = append(e.violations, fmt.Sprintf(format, args...))
}

// check fails t on any recorded violation.
func (e *fakeEngine) check(t *testing.T) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.violations {
		t.Errorf("engine violation: %s", v)
	}
}

// counts returns faces created and destroyed.
func (e *fakeEngine) counts() (created, destroyed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facesNew, e.facesDone
}
