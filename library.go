package fontface

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// nextLibraryID numbers libraries for log attributes.
var nextLibraryID atomic.Uint64

// Library owns one engine's global state and the mutex that serializes every
// face creation and destruction against it.
//
// Library is reference counted: NewLibrary returns it with one owner, every
// Face created through it adds one, and the engine state is destroyed when the
// last owner calls Release.
//
// Library is safe for concurrent use.
// Library must not be copied after creation (enforced by copyCheck).
type Library struct {
	// addr is used for copy protection (Ebitengine pattern).
	// It must point to the Library itself.
	addr *Library

	core    *libraryCore
	cleanup runtime.Cleanup
}

// libraryCore is the state shared with the runtime cleanup.
// It must not point back to the Library.
type libraryCore struct {
	id     uint64
	engine Engine
	state  LibraryState

	// mu is the global mutex. held mirrors whether it is locked.
	mu   sync.Mutex
	held atomic.Bool

	refs atomic.Int32
}

// NewLibrary creates a Library with a fresh engine state.
// The engine is created with the new library's mutex held.
func NewLibrary(opts ...LibraryOption) (*Library, error) {
	config := defaultLibraryConfig()
	for _, opt := range opts {
		opt(&config)
	}

	eng, err := config.resolve()
	if err != nil {
		return nil, err
	}

	core := &libraryCore{
		id:     nextLibraryID.Add(1),
		engine: eng,
	}

	core.lock()
	state, err := eng.NewLibrary()
	core.state = state
	core.unlock()
	if err != nil {
		return nil, fmt.Errorf("fontface: %s: new library: %w", eng.Name(), err)
	}

	core.refs.Store(1)
	l := &Library{core: core}
	l.addr = l
	l.cleanup = runtime.AddCleanup(l, (*libraryCore).reclaim, core)

	Logger().Debug("fontface: library created", "library", core.id, "engine", eng.Name())
	return l, nil
}

// Engine returns the engine the library was created with.
func (l *Library) Engine() Engine {
	l.copyCheck()
	return l.core.engine
}

// State returns the engine's global state.
// Calls into the engine that touch it must hold the library lock.
func (l *Library) State() LibraryState {
	l.copyCheck()
	return l.core.state
}

// ID returns a process-unique identifier, used in log output.
func (l *Library) ID() uint64 {
	l.copyCheck()
	return l.core.id
}

// Refs returns the current number of owners.
func (l *Library) Refs() int {
	l.copyCheck()
	return int(l.core.refs.Load())
}

// Lock acquires the library's global mutex.
// Creation and destruction of faces take it internally; callers only need it
// for their own library-wide engine calls.
func (l *Library) Lock() {
	l.copyCheck()
	l.checkAlive("Lock")
	l.core.lock()
}

// Unlock releases the library's global mutex.
func (l *Library) Unlock() {
	l.copyCheck()
	l.core.unlock()
}

// TryLock tries to acquire the library's global mutex without blocking.
func (l *Library) TryLock() bool {
	l.copyCheck()
	l.checkAlive("TryLock")
	return l.core.tryLock()
}

// Retain adds an owner and returns l.
// Panics if l has already been released by all owners.
func (l *Library) Retain() *Library {
	l.copyCheck()
	for {
		n := l.core.refs.Load()
		if n <= 0 {
			misuse("Retain of released Library")
		}
		if l.core.refs.CompareAndSwap(n, n+1) {
			return l
		}
	}
}

// Release drops an owner. When the last owner is gone the engine state is
// destroyed under the library mutex and any destruction error is returned.
func (l *Library) Release() error {
	l.copyCheck()
	n := l.core.refs.Add(-1)
	switch {
	case n > 0:
		return nil
	case n < 0:
		misuse("Library released more times than retained")
	}
	l.cleanup.Stop()
	return l.core.destroy()
}

func (l *Library) checkAlive(op string) {
	if l.core.refs.Load() <= 0 {
		misuse(op + " on released Library")
	}
}

// copyCheck panics if Library was copied by value.
func (l *Library) copyCheck() {
	if l.addr != l {
		panic("fontface: Library must not be copied by value")
	}
}

func (c *libraryCore) lock() {
	c.mu.Lock()
	c.held.Store(true)
}

func (c *libraryCore) tryLock() bool {
	if !c.mu.TryLock() {
		return false
	}
	c.held.Store(true)
	return true
}

func (c *libraryCore) unlock() {
	c.held.Store(false)
	c.mu.Unlock()
}

// destroy releases the engine state. Called once, after the last owner.
func (c *libraryCore) destroy() error {
	c.lock()
	err := c.engine.DoneLibrary(c.state)
	c.state = nil
	c.unlock()

	if err != nil {
		Logger().Warn("fontface: library destroy failed", "library", c.id, "engine", c.engine.Name(), "error", err)
		return fmt.Errorf("fontface: %s: done library: %w", c.engine.Name(), err)
	}
	Logger().Debug("fontface: library destroyed", "library", c.id, "engine", c.engine.Name())
	return nil
}

// reclaim runs when a Library becomes unreachable without being released.
func (c *libraryCore) reclaim() {
	if c.refs.Swap(0) <= 0 {
		return
	}
	Logger().Warn("fontface: library leaked, releasing", "library", c.id, "engine", c.engine.Name())
	_ = c.destroy()
}
