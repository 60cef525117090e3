package configure

import (
	"fmt"
	"os"
	"strings"
)

// MaxValueSize caps the length of a single raw environment value.
const MaxValueSize = 64 * 1024

// EnvTransformFunc converts a (namespace, field) pair to an environment
// variable name.
type EnvTransformFunc func(namespace, field string) string

// EnvSource resolves fields from environment variables. For field "bar"
// in namespace "foo" it looks up FOO_BAR: namespace and field name
// upper-cased and joined with an underscore, dots and dashes folded to
// underscores. A variable that is set but empty counts as absent, so an
// operator can neutralize a value without unsetting it.
//
// The zero value is the environment layer of the default source.
type EnvSource struct {
	// Prefix is prepended to every variable name, e.g. "MYAPP_".
	Prefix string

	// Transform replaces the naming convention entirely. When set,
	// Prefix is ignored; the transform owns the full name.
	Transform EnvTransformFunc
}

// Resolve looks up one variable per field against the current process
// environment.
func (s EnvSource) Resolve(namespace string, fields []Field) (map[string]any, error) {
	transform := s.Transform
	if transform == nil {
		transform = prefixedEnvName(s.Prefix)
	}

	resolved := make(map[string]any, len(fields))
	for _, f := range fields {
		name := transform(namespace, f.Name)
		value, exists := os.LookupEnv(name)
		if !exists || value == "" {
			continue
		}
		if len(value) > MaxValueSize {
			return nil, fmt.Errorf("%w: %s", ErrValueSize, name)
		}
		resolved[f.Name] = value
	}
	return resolved, nil
}

// EnvName returns the environment variable the default convention maps
// a (namespace, field) pair to: EnvName("foo", "bar") == "FOO_BAR".
func EnvName(namespace, field string) string {
	return prefixedEnvName("")(namespace, field)
}

var envNameReplacer = strings.NewReplacer(".", "_", "-", "_")

func prefixedEnvName(prefix string) EnvTransformFunc {
	return func(namespace, field string) string {
		name := envNameReplacer.Replace(namespace + "_" + field)
		return prefix + strings.ToUpper(name)
	}
}
