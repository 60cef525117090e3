package configure

import "sync"

// Registry holds the single active Source for a process. It is written
// at most once and read by every component that resolves configuration,
// so a component deep in the dependency graph can declare configuration
// needs without every intermediate library threading a source parameter
// through its API.
//
// Most programs use the package-level Install/Active functions, which
// operate on a shared process-wide instance. Separate instances exist
// for tests and for embedding the protocol behind another façade.
type Registry struct {
	mu     sync.RWMutex
	source Source
}

// NewRegistry returns an empty Registry. Its first Active call latches
// DefaultSource unless Install runs first.
func NewRegistry() *Registry {
	return &Registry{}
}

// Install binds src as this registry's active source. It succeeds at
// most once per registry: a second call, or a call after Active has
// already latched the default source, fails with ErrSourceInstalled and
// leaves the active source untouched. Install is intended to run at the
// top of the final application's entry point, before any component
// resolves configuration; libraries must never call it.
func (r *Registry) Install(src Source) error {
	if src == nil {
		return ErrNilSource
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source != nil {
		return ErrSourceInstalled
	}
	r.source = src
	return nil
}

// MustInstall is like Install but panics on error. Installation
// discipline violations are programmer errors; failing loudly beats
// letting two parts of an application silently resolve against
// different sources.
func (r *Registry) MustInstall(src Source) {
	if err := r.Install(src); err != nil {
		panic(err)
	}
}

// Active returns the currently active source, latching DefaultSource on
// first use if nothing was installed. Safe for concurrent use; once a
// source is latched it never changes for the life of the registry.
func (r *Registry) Active() Source {
	r.mu.RLock()
	src := r.source
	r.mu.RUnlock()
	if src != nil {
		return src
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the write lock in case another goroutine latched
	// a source meanwhile.
	if r.source == nil {
		r.source = DefaultSource()
	}
	return r.source
}

// global is the process-wide registry the package-level functions use.
var global = NewRegistry()

// Install binds src as the process-wide active source. See
// Registry.Install for the once-only semantics.
func Install(src Source) error {
	return global.Install(src)
}

// MustInstall is like Install but panics on error.
func MustInstall(src Source) {
	global.MustInstall(src)
}

// Active returns the process-wide active source, latching DefaultSource
// on first use if nothing was installed.
func Active() Source {
	return global.Active()
}
