package configure

import "reflect"

// Field describes one resolvable field of a configuration record.
// Sources receive the ordered field list for the record being generated
// and use Name to form their own external lookup keys; the mapping from
// (namespace, Name) to an external key is owned by each Source.
type Field struct {
	// Name is the field's key within its namespace, snake_cased.
	Name string

	// Type is the declared Go type of the field.
	Type reflect.Type

	// Optional reports whether absence in the source is tolerated.
	// Pointer fields, fields tagged `config:",optional"`, and fields
	// carrying a `default` tag are optional.
	Optional bool

	index      []int
	defaultRaw string
	hasDefault bool
}

// Source is the pluggable abstraction every concrete configuration
// source implements: environment variables, a manifest file, a remote
// store, or a Fallback composition of several.
//
// Resolve returns a mapping from Field.Name to a raw value for the
// requested namespace. Absent fields are simply omitted from the
// mapping; the generation layer applies each field's absence policy.
// A present value may be a raw string (decoded by the field's declared
// type's parsing rules) or an already structured value.
//
// Implementations must be deterministic for a fixed external
// environment and must not cache across calls in a way that hides
// external changes: the caller decides if and when to re-query, and
// Resolve should reflect the external state at call time. A Source
// performing network I/O owns its timeout policy and must return an
// error rather than block indefinitely.
type Source interface {
	Resolve(namespace string, fields []Field) (map[string]any, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(namespace string, fields []Field) (map[string]any, error)

// Resolve calls f.
func (f SourceFunc) Resolve(namespace string, fields []Field) (map[string]any, error) {
	return f(namespace, fields)
}

// StaticSource resolves from a fixed in-memory mapping of namespace to
// field values. Useful in tests and as the lowest layer of a Fallback
// when an application wants hard-coded last-resort values.
type StaticSource map[string]map[string]any

// Resolve returns the values recorded for the requested fields.
func (s StaticSource) Resolve(namespace string, fields []Field) (map[string]any, error) {
	values := s[namespace]
	if len(values) == 0 {
		return map[string]any{}, nil
	}

	resolved := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := values[f.Name]; ok {
			resolved[f.Name] = v
		}
	}
	return resolved, nil
}

// fallback composes an ordered sequence of sources.
type fallback struct {
	layers []Source
}

// Fallback returns a Source that tries each layer in order and uses the
// first layer that yields a value for each field. Layer order is fixed
// at composition time; every layer is consulted on every resolution so
// none can go stale. An error from any layer aborts the whole
// resolution: precedence cannot be decided against a layer whose state
// is unknown.
//
// The default source is Fallback(EnvSource{}, NewManifestSource()).
func Fallback(sources ...Source) Source {
	layers := make([]Source, len(sources))
	copy(layers, sources)
	return &fallback{layers: layers}
}

// Resolve merges layer mappings, earlier layers winning per field.
func (f *fallback) Resolve(namespace string, fields []Field) (map[string]any, error) {
	merged := make(map[string]any, len(fields))
	for _, layer := range f.layers {
		if layer == nil {
			return nil, ErrNilSource
		}
		values, err := layer.Resolve(namespace, fields)
		if err != nil {
			return nil, err
		}
		for name, v := range values {
			if _, ok := merged[name]; !ok {
				merged[name] = v
			}
		}
	}
	return merged, nil
}

// DefaultSource returns the batteries-included resolver: environment
// variables first, manifest file fallback second. The ordering is fixed
// and deliberately not configurable; environment variables are the
// operational override for real deployments, the manifest carries shared
// developer defaults checked into version control.
func DefaultSource() Source {
	return Fallback(EnvSource{}, NewManifestSource())
}
