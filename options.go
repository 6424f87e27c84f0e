package fontface

// LibraryOption configures Library creation.
// Generators accept the same options for the private library they create
// when CreateFace is called with a nil Library.
type LibraryOption func(*libraryConfig)

// libraryConfig holds configuration for Library.
type libraryConfig struct {
	engineName string
	engine     Engine
}

// defaultLibraryConfig returns the default library configuration.
func defaultLibraryConfig() libraryConfig {
	return libraryConfig{
		engineName: defaultEngineName,
	}
}

// WithEngine selects a registered engine by name.
// The default is "sfnt" which uses golang.org/x/image/font/sfnt.
func WithEngine(name string) LibraryOption {
	return func(c *libraryConfig) {
		c.engineName = name
		c.engine = nil
	}
}

// WithEngineInstance uses e directly, bypassing the registry.
// This is how tests and unregistered engines are plugged in.
func WithEngineInstance(e Engine) LibraryOption {
	return func(c *libraryConfig) {
		c.engine = e
	}
}

// resolve returns the engine selected by c.
func (c libraryConfig) resolve() (Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	return LookupEngine(c.engineName)
}
