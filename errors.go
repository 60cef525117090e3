package configure

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceInstalled is returned by Install when the registry already
	// holds an active source, whether installed explicitly or latched
	// lazily by a prior resolution.
	ErrSourceInstalled = errors.New("configure: source already installed")

	// ErrNilSource is returned when a nil Source is installed or composed.
	ErrNilSource = errors.New("configure: nil source")

	// ErrInvalidTarget is returned when a generation target is not a
	// non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("configure: target must be a non-nil struct pointer")

	// ErrFieldMissing indicates a required field was absent from the
	// active source. It is always wrapped in a DecodeError.
	ErrFieldMissing = errors.New("required field missing")

	// ErrValueSize indicates a raw value exceeded MaxValueSize.
	ErrValueSize = errors.New("value exceeds maximum size")

	// ErrManifestNotFound indicates no manifest file could be located.
	// ManifestSource treats this as "all fields absent", not a failure;
	// it surfaces only from APIs that require a manifest to exist.
	ErrManifestNotFound = errors.New("configure: manifest file not found")
)

// SourceError reports that the active source failed to produce a mapping
// at all: I/O failure, malformed manifest syntax, a remote store timing
// out. The core never retries; the error propagates to the caller of
// Generate or Regenerate.
type SourceError struct {
	Namespace string
	Err       error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("configure: source failed for namespace %q: %v", e.Namespace, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// DecodeError reports that a mapping was obtained but could not be
// decoded: a required field was absent (wraps ErrFieldMissing) or a
// present value could not be converted to its declared type. Field is
// empty when the failure cannot be attributed to a single field.
type DecodeError struct {
	Namespace string
	Field     string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configure: decoding namespace %q field %q: %v", e.Namespace, e.Field, e.Err)
	}
	return fmt.Sprintf("configure: decoding namespace %q: %v", e.Namespace, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
