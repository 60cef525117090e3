package configure

import (
	"fmt"
	"path"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

// Namespacer overrides the namespace a configuration record resolves
// under. Without it the namespace is derived from the record's package
// name, which matches component identity for most libraries; implement
// Namespacer when the package name is not the name operators know the
// component by.
type Namespacer interface {
	ConfigureNamespace() string
}

// Defaulter lets a record type declare programmatic defaults. It runs
// on a fresh instance before source values are applied, during both
// Generate and Regenerate. Tag-level defaults (`default:"..."`) cover
// most cases; Defaulter exists for values that cannot be expressed as a
// string literal.
type Defaulter interface {
	ConfigureDefaults()
}

// Generate resolves target's configuration from the process-wide active
// source. target must be a non-nil pointer to a struct; the struct's
// declared fields are exactly the configuration the component needs.
//
// Generate starts from declared defaults (zero value, then
// ConfigureDefaults, then `default` tags), overlays whatever the source
// yields, and writes the result into target. A required field absent
// from the source, or a present value that cannot be converted to its
// declared type, fails with a DecodeError; a failing source fails with
// a SourceError. On any error target is left untouched.
func Generate(target any) error {
	return GenerateFrom(target, global)
}

// Regenerate repeats the lookup and decode Generate performs and
// overwrites target's fields in place. It is all-or-nothing: if the new
// environment is invalid, target keeps exactly the fields it had before
// the call and the error is returned. Components holding long-lived
// configuration call Regenerate on their own reload trigger (a signal,
// a ManifestSource watch notification) without risking a half-updated
// record.
//
// Fields the source no longer yields revert to their declared defaults,
// so Regenerate converges to the same record Generate would produce.
func Regenerate(target any) error {
	return GenerateFrom(target, global)
}

// GenerateFrom is Generate against an explicit Registry. It exists for
// tests and for embedding the protocol behind another façade; ordinary
// components use Generate.
func GenerateFrom(target any, r *Registry) error {
	if r == nil {
		r = global
	}
	return FromSource(target, r.Active())
}

// FromSource resolves target directly against src, bypassing any
// registry. The decode semantics are identical to Generate.
func FromSource(target any, src Source) error {
	if src == nil {
		return ErrNilSource
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
	elem := rv.Elem()
	t := elem.Type()

	namespace := namespaceOf(target, t)
	fields := fieldsOf(t)

	resolved, err := src.Resolve(namespace, fields)
	if err != nil {
		return &SourceError{Namespace: namespace, Err: err}
	}

	// Apply each field's absence policy before decoding anything.
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		switch {
		case hasValue(resolved, f.Name):
			values[f.Name] = resolved[f.Name]
		case f.hasDefault:
			values[f.Name] = f.defaultRaw
		case !f.Optional:
			return &DecodeError{Namespace: namespace, Field: f.Name, Err: ErrFieldMissing}
		}
	}

	// Decode into a clone so a failure partway leaves target untouched.
	clone := reflect.New(t)
	if d, ok := clone.Interface().(Defaulter); ok {
		d.ConfigureDefaults()
	}
	for _, f := range fields {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		fv := clone.Elem().FieldByIndex(f.index)
		if err := decodeValue(raw, fv.Addr().Interface()); err != nil {
			return &DecodeError{Namespace: namespace, Field: f.Name, Err: err}
		}
	}

	elem.Set(clone.Elem())
	return nil
}

// hasValue distinguishes "absent" from "present as nil": a source that
// stores an explicit nil has not yielded a usable value.
func hasValue(resolved map[string]any, name string) bool {
	v, ok := resolved[name]
	return ok && v != nil
}

// Fields returns the ordered field descriptors Generate derives for a
// record type, as they are presented to a Source. The descriptor list
// is fixed at the point the type is defined; callers never supply it.
func Fields(target any) ([]Field, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
	return fieldsOf(rv.Elem().Type()), nil
}

// Namespace returns the namespace a record resolves under.
func Namespace(target any) (string, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return "", fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
	return namespaceOf(target, rv.Elem().Type()), nil
}

// fieldCache memoizes derived field lists per record type.
var fieldCache sync.Map // map[reflect.Type][]Field

func fieldsOf(t reflect.Type) []Field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("config")
		if tag == "-" {
			continue
		}

		f := Field{Type: sf.Type, index: sf.Index}
		parts := strings.Split(tag, ",")
		f.Name = parts[0]
		for _, opt := range parts[1:] {
			if opt == "optional" {
				f.Optional = true
			}
		}
		if f.Name == "" {
			f.Name = toSnake(sf.Name)
		}

		// Pointer fields decode to nil on absence; a declared default
		// makes absence resolvable. Both tolerate a silent source.
		if sf.Type.Kind() == reflect.Pointer {
			f.Optional = true
		}
		if def, ok := sf.Tag.Lookup("default"); ok {
			f.defaultRaw = def
			f.hasDefault = true
			f.Optional = true
		}

		fields = append(fields, f)
	}

	fieldCache.Store(t, fields)
	return fields
}

var majorVersionRE = regexp.MustCompile(`^v[0-9]+$`)

// namespaceOf derives the namespace for a record: Namespacer if
// implemented, otherwise the record's package name (skipping a major
// version suffix like /v2), sanitized to a lookup-friendly form.
func namespaceOf(target any, t reflect.Type) string {
	if n, ok := target.(Namespacer); ok {
		return n.ConfigureNamespace()
	}

	pkg := t.PkgPath()
	base := path.Base(pkg)
	if majorVersionRE.MatchString(base) {
		base = path.Base(path.Dir(pkg))
	}
	return sanitizeNamespace(base)
}

func sanitizeNamespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
