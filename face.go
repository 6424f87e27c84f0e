package fontface

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Face owns one engine face together with the Library it was created from
// and a mutex private to this face.
//
// The engine face returned by Handle is not safe for concurrent use; callers
// that share a Face between goroutines bracket every use with Lock/Unlock
// (or TryLock/Unlock). Two different Faces never contend with each other.
//
// Face is reference counted. When the last owner calls Release the engine
// face is destroyed while the owning Library's mutex is held, and the Face's
// reference to the Library is dropped.
//
// Face must not be copied after creation (enforced by copyCheck).
type Face struct {
	// addr is used for copy protection (Ebitengine pattern).
	addr *Face

	core    *faceCore
	cleanup runtime.Cleanup
}

// faceCore is the state shared with the runtime cleanup.
type faceCore struct {
	raw  RawFace
	lib  *Library
	mu   sync.Mutex
	refs atomic.Int32
}

// NewFace takes ownership of raw and adds an owner to lib.
//
// raw must have been created from lib's engine state. Production code reaches
// NewFace through CreateFace, which guarantees that.
func NewFace(raw RawFace, lib *Library) *Face {
	if raw == nil {
		panic("fontface: NewFace called with nil raw face")
	}
	if lib == nil {
		panic("fontface: NewFace called with nil Library")
	}

	core := &faceCore{raw: raw, lib: lib.Retain()}
	core.refs.Store(1)

	f := &Face{core: core}
	f.addr = f
	f.cleanup = runtime.AddCleanup(f, (*faceCore).reclaim, core)
	return f
}

// Handle returns the engine face. It does not lock; see Lock.
func (f *Face) Handle() RawFace {
	f.checkAlive("Handle")
	return f.core.raw
}

// Library returns the Library the face was created from.
// Ownership is not transferred; call Retain on it to keep it beyond the Face.
func (f *Face) Library() *Library {
	f.copyCheck()
	return f.core.lib
}

// Lock acquires the per-face mutex, blocking until it is free.
// Locking twice from the same goroutine without Unlock deadlocks.
func (f *Face) Lock() {
	f.checkAlive("Lock")
	f.core.mu.Lock()
}

// Unlock releases the per-face mutex.
func (f *Face) Unlock() {
	f.copyCheck()
	f.core.mu.Unlock()
}

// TryLock tries to acquire the per-face mutex without blocking and reports
// whether it succeeded. On success the caller must call Unlock.
func (f *Face) TryLock() bool {
	f.checkAlive("TryLock")
	return f.core.mu.TryLock()
}

// Retain adds an owner and returns f.
func (f *Face) Retain() *Face {
	f.copyCheck()
	for {
		n := f.core.refs.Load()
		if n <= 0 {
			misuse("Retain of released Face")
		}
		if f.core.refs.CompareAndSwap(n, n+1) {
			return f
		}
	}
}

// Release drops an owner. The last Release destroys the engine face and
// returns any error reported by the engine.
func (f *Face) Release() error {
	f.copyCheck()
	n := f.core.refs.Add(-1)
	switch {
	case n > 0:
		return nil
	case n < 0:
		misuse("Face released more times than retained")
	}
	f.cleanup.Stop()
	return f.core.destroy()
}

// Refs returns the current number of owners.
func (f *Face) Refs() int {
	f.copyCheck()
	return int(f.core.refs.Load())
}

// Info describes the face. It holds the per-face lock while the engine
// reads the face.
func (f *Face) Info() (FaceInfo, error) {
	f.Lock()
	defer f.Unlock()

	d, ok := f.core.lib.core.engine.(Describer)
	if !ok {
		return FaceInfo{}, fmt.Errorf("%w: %s", ErrNotDescribable, f.core.lib.core.engine.Name())
	}
	return d.Describe(f.core.raw)
}

func (f *Face) checkAlive(op string) {
	f.copyCheck()
	if f.core.refs.Load() <= 0 {
		misuse(op + " on released Face")
	}
}

// copyCheck panics if Face was copied by value.
func (f *Face) copyCheck() {
	if f.addr != f {
		panic("fontface: Face must not be copied by value")
	}
}

// destroy releases the engine face under the library mutex, then drops the
// face's library reference.
func (c *faceCore) destroy() error {
	lc := c.lib.core
	lc.lock()
	err := lc.engine.DoneFace(lc.state, c.raw)
	lc.unlock()
	c.raw = nil

	if err != nil {
		Logger().Warn("fontface: face destroy failed", "library", lc.id, "engine", lc.engine.Name(), "error", err)
		err = fmt.Errorf("fontface: %s: done face: %w", lc.engine.Name(), err)
	} else {
		Logger().Debug("fontface: face destroyed", "library", lc.id, "engine", lc.engine.Name())
	}

	return errors.Join(err, c.lib.Release())
}

// reclaim runs when a Face becomes unreachable without being released.
func (c *faceCore) reclaim() {
	if c.refs.Swap(0) <= 0 {
		return
	}
	Logger().Warn("fontface: face leaked, releasing", "library", c.lib.core.id, "engine", c.lib.core.engine.Name())
	_ = c.destroy()
}
