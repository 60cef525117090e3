package configure

import "errors"

// Builder composes a layered Source and installs it, the fluent shape
// applications use at the top of main:
//
//	err := configure.NewBuilder().
//	    WithSource(remote).
//	    WithEnvPrefix("MYAPP_").
//	    WithManifest("deploy/Configure.toml").
//	    Install()
//
// Layer order is precedence order: the first layer added wins.
type Builder struct {
	layers []Source
	err    error
}

// NewBuilder creates an empty source builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSource appends a custom source layer.
func (b *Builder) WithSource(src Source) *Builder {
	if src == nil {
		if b.err == nil {
			b.err = ErrNilSource
		}
		return b
	}
	b.layers = append(b.layers, src)
	return b
}

// WithEnv appends an environment layer using the default naming
// convention.
func (b *Builder) WithEnv() *Builder {
	return b.WithSource(EnvSource{})
}

// WithEnvPrefix appends an environment layer whose variable names carry
// the given prefix, e.g. "MYAPP_".
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	return b.WithSource(EnvSource{Prefix: prefix})
}

// WithManifest appends a manifest layer pinned to path; an empty path
// enables discovery.
func (b *Builder) WithManifest(path string) *Builder {
	return b.WithSource(&ManifestSource{Path: path})
}

// WithStatic appends a fixed in-memory layer, typically last-resort
// application defaults.
func (b *Builder) WithStatic(values map[string]map[string]any) *Builder {
	return b.WithSource(StaticSource(values))
}

// Build returns the composed source without installing it.
func (b *Builder) Build() (Source, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.layers) == 0 {
		return nil, errors.New("configure: builder has no sources")
	}
	if len(b.layers) == 1 {
		return b.layers[0], nil
	}
	return Fallback(b.layers...), nil
}

// Install builds the source and installs it process-wide.
func (b *Builder) Install() error {
	return b.InstallTo(global)
}

// InstallTo builds the source and installs it into r.
func (b *Builder) InstallTo(r *Registry) error {
	src, err := b.Build()
	if err != nil {
		return err
	}
	return r.Install(src)
}

// MustInstall is like Install but panics on error.
func (b *Builder) MustInstall() {
	if err := b.Install(); err != nil {
		panic(err)
	}
}
