package fontface

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGeneratorFilePrivateLibrary(t *testing.T) {
	eng := newFakeEngine()
	gen := NewGeneratorFile("regular.ttf", 0, WithEngineInstance(eng))

	face, err := gen.CreateFace(nil)
	if err != nil {
		t.Fatalf("CreateFace(nil) = %v", err)
	}

	lib := face.Library()
	if lib.Refs() != 1 {
		t.Errorf("private library Refs() = %d, want 1 (owned by the face only)", lib.Refs())
	}
	if eng.libsNew != 1 {
		t.Errorf("libraries created = %d, want 1", eng.libsNew)
	}

	if err := face.Release(); err != nil {
		t.Fatalf("Release() = %v", err)
	}
	if eng.libsDone != 1 {
		t.Errorf("private library destroyed %d times, want 1", eng.libsDone)
	}
	eng.check(t)
}

func TestGeneratorFileConcurrentPrivateLibraries(t *testing.T) {
	eng := newFakeEngine()
	eng.delay = 10 * time.Millisecond
	gen := NewGeneratorFile("regular.ttf", 0, WithEngineInstance(eng))

	var (
		wg    sync.WaitGroup
		faces [2]*Face
		errs  [2]error
	)
	for i := range faces {
		wg.Add(1)
		go func() {
			defer wg.Done()
			faces[i], errs[i] = gen.CreateFace(nil)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("CreateFace(nil) #%d = %v", i, err)
		}
	}
	if faces[0] == faces[1] {
		t.Fatal("concurrent calls returned the same face")
	}
	if faces[0].Library() == faces[1].Library() {
		t.Error("concurrent calls with nil shared a library")
	}
	if faces[0].Library().ID() == faces[1].Library().ID() {
		t.Error("private libraries share an ID")
	}

	for _, f := range faces {
		if err := f.Release(); err != nil {
			t.Errorf("Release() = %v", err)
		}
	}
	if eng.libsNew != 2 || eng.libsDone != 2 {
		t.Errorf("libraries created/destroyed = %d/%d, want 2/2", eng.libsNew, eng.libsDone)
	}
	eng.check(t)
}

func TestGeneratorFileSharedLibrary(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)

	gen := NewGeneratorFile("regular.ttf", 0)
	if gen.Path() != "regular.ttf" || gen.Index() != 0 {
		t.Fatalf("Path(), Index() = %q, %d", gen.Path(), gen.Index())
	}

	a, err := gen.CreateFace(lib)
	if err != nil {
		t.Fatalf("CreateFace(lib) = %v", err)
	}
	b, err := gen.CreateFace(lib)
	if err != nil {
		t.Fatalf("second CreateFace(lib) = %v", err)
	}
	if a == b || a.Handle() == b.Handle() {
		t.Error("generator returned a shared face")
	}
	if a.Library() != lib || b.Library() != lib {
		t.Error("faces not bound to the supplied library")
	}
	if lib.Refs() != 3 {
		t.Errorf("library Refs() = %d, want 3", lib.Refs())
	}

	for _, f := range []*Face{a, b} {
		if err := f.Release(); err != nil {
			t.Errorf("Release() = %v", err)
		}
	}
	if err := lib.Release(); err != nil {
		t.Fatalf("lib.Release() = %v", err)
	}
	if eng.libsNew != 1 || eng.libsDone != 1 {
		t.Errorf("libraries created/destroyed = %d/%d, want 1/1", eng.libsNew, eng.libsDone)
	}
	eng.check(t)
}

func TestGeneratorFileMissing(t *testing.T) {
	eng := newFakeEngine("missing.ttf")
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	face, err := NewGeneratorFile("missing.ttf", 0).CreateFace(lib)
	if err == nil {
		_ = face.Release()
		t.Fatal("CreateFace succeeded for a missing file")
	}
	if face != nil {
		t.Error("failed CreateFace returned a face")
	}

	var cerr *CreationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %T, want *CreationError", err)
	}
	if cerr.Engine != "fake" || cerr.Source != "missing.ttf" || cerr.Index != 0 {
		t.Errorf("CreationError = %+v", cerr)
	}
	if !errors.Is(err, ErrCreationFailure) {
		t.Error("errors.Is(err, ErrCreationFailure) = false")
	}
	if !errors.Is(err, errFakeMissing) {
		t.Error("CreationError does not wrap the engine error")
	}

	// The library is unaffected: same owners, lock free, still usable.
	if lib.Refs() != 1 {
		t.Errorf("library Refs() = %d, want 1", lib.Refs())
	}
	done := make(chan bool)
	go func() {
		ok := lib.TryLock()
		if ok {
			lib.Unlock()
		}
		done <- ok
	}()
	if !<-done {
		t.Fatal("library lock still held after failed creation")
	}

	// A different generator on another goroutine succeeds on the same library.
	errc := make(chan error, 1)
	go func() {
		other, err := NewGeneratorFile("regular.ttf", 0).CreateFace(lib)
		if err != nil {
			errc <- err
			return
		}
		errc <- other.Release()
	}()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("CreateFace after failure = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("CreateFace after failure blocked")
	}
	eng.check(t)
}

func TestGeneratorFileBadIndex(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	_, err := NewGeneratorFile("regular.ttf", 7).CreateFace(lib)
	if !errors.Is(err, ErrFaceIndex) {
		t.Fatalf("err = %v, want ErrFaceIndex", err)
	}
	var cerr *CreationError
	if !errors.As(err, &cerr) || cerr.Index != 7 {
		t.Errorf("CreationError = %+v, want Index 7", cerr)
	}
}

func TestGeneratorPrivateLibraryReleasedOnFailure(t *testing.T) {
	eng := newFakeEngine("missing.ttf")

	_, err := NewGeneratorFile("missing.ttf", 0, WithEngineInstance(eng)).CreateFace(nil)
	if !errors.Is(err, ErrCreationFailure) {
		t.Fatalf("err = %v, want ErrCreationFailure", err)
	}
	if eng.libsNew != 1 || eng.libsDone != 1 {
		t.Errorf("libraries created/destroyed = %d/%d, want 1/1", eng.libsNew, eng.libsDone)
	}
	if created, _ := eng.counts(); created != 0 {
		t.Errorf("faces created = %d, want 0", created)
	}
}

func TestGeneratorPrivateLibraryFailure(t *testing.T) {
	_, err := NewGeneratorFile("regular.ttf", 2, WithEngineInstance(&failingEngine{})).CreateFace(nil)

	var cerr *CreationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *CreationError", err)
	}
	if cerr.Engine != "" {
		t.Errorf("Engine = %q, want empty when no library exists", cerr.Engine)
	}
	if cerr.Source != "regular.ttf" || cerr.Index != 2 {
		t.Errorf("CreationError = %+v", cerr)
	}
	if !errors.Is(err, errInit) {
		t.Error("CreationError does not wrap the library error")
	}
}

func TestGeneratorNilFace(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	gen := NewGenerator("nothing", func(Engine, LibraryState) (RawFace, error) {
		return nil, nil
	})
	_, err := gen.CreateFace(lib)
	if !errors.Is(err, ErrNilFace) {
		t.Fatalf("err = %v, want ErrNilFace", err)
	}
	var cerr *CreationError
	if !errors.As(err, &cerr) || cerr.Index != -1 {
		t.Errorf("CreationError = %+v, want Index -1", cerr)
	}
	if lib.Refs() != 1 {
		t.Errorf("library Refs() = %d, want 1", lib.Refs())
	}
}

func TestGeneratorRunsUnderLibraryLock(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	var held bool
	gen := NewGenerator("probe", func(e Engine, state LibraryState) (RawFace, error) {
		held = lib.core.held.Load()
		return e.OpenFile(state, "probe", 0)
	})

	face, err := gen.CreateFace(lib)
	if err != nil {
		t.Fatalf("CreateFace = %v", err)
	}
	defer func() { _ = face.Release() }()

	if !held {
		t.Error("creation step ran without the library lock")
	}
	if lib.core.held.Load() {
		t.Error("library lock still held after CreateFace")
	}
}

func TestGeneratorCreateFailsWithCopiedLibrary(t *testing.T) {
	lib := mustLibrary(t, newFakeEngine())
	defer func() { _ = lib.Release() }()

	defer func() {
		if recover() == nil {
			t.Error("CreateFace with a copied Library should panic")
		}
	}()
	copied := *lib
	_, _ = NewGeneratorFile("a", 0).CreateFace(&copied)
}

func TestGeneratorMemory(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	data := []byte("memfont")
	gen := NewGeneratorMemory(data, 0)
	data[0] = 'X' // the generator holds its own copy

	if gen.Size() != len(data) || gen.Index() != 0 {
		t.Fatalf("Size(), Index() = %d, %d", gen.Size(), gen.Index())
	}
	if got := gen.String(); got != "memory(7 bytes)" {
		t.Errorf("String() = %q", got)
	}

	face, err := gen.CreateFace(lib)
	if err != nil {
		t.Fatalf("CreateFace = %v", err)
	}
	defer func() { _ = face.Release() }()

	if src := face.Handle().(*fakeFace).source; src != "memfont" {
		t.Errorf("face opened from %q, want %q", src, "memfont")
	}
	eng.check(t)
}

func TestGeneratorMemoryEmpty(t *testing.T) {
	eng := newFakeEngine()
	lib := mustLibrary(t, eng)
	defer func() { _ = lib.Release() }()

	_, err := NewGeneratorMemory(nil, 0).CreateFace(lib)
	if !errors.Is(err, ErrEmptyFontData) {
		t.Fatalf("err = %v, want ErrEmptyFontData", err)
	}
	var cerr *CreationError
	if !errors.As(err, &cerr) || cerr.Source != "memory(0 bytes)" {
		t.Errorf("CreationError = %+v", cerr)
	}
	if created, _ := eng.counts(); created != 0 {
		t.Errorf("faces created = %d, want 0", created)
	}
}
