package configure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// EnvManifest names an explicit manifest file path, overriding
	// discovery.
	EnvManifest = "CONFIGURE_MANIFEST"

	// EnvManifestDir names the directory the manifest lives in.
	EnvManifestDir = "CONFIGURE_MANIFEST_DIR"

	// DefaultMaxManifestSize bounds how much of a manifest is read.
	DefaultMaxManifestSize = 1 << 20
)

// manifestNames are the file names discovery probes, in order.
var manifestNames = []string{
	"Configure.toml",
	"Configure.yaml",
	"Configure.yml",
	"Configure.json",
}

// ManifestSource resolves fields from a project manifest file. The
// manifest carries per-component defaults checked into version control
// under a metadata table:
//
//	[package.metadata.foo]
//	bar = 42
//	baz = "shared default"
//
// Values are already structured per the manifest format's type system
// and decode directly into the field's declared type.
//
// With an empty Path the manifest is discovered: CONFIGURE_MANIFEST
// names the file, CONFIGURE_MANIFEST_DIR names its directory, otherwise
// the working directory and its ancestors are searched for
// Configure.toml (also .yaml, .yml, .json). A missing manifest or
// missing table means every field is absent, which is not an error;
// malformed manifest syntax is. The file is re-read on every
// resolution so an edited manifest is visible to the next Regenerate.
type ManifestSource struct {
	// Path pins the manifest file. Empty enables discovery.
	Path string

	// MaxSize limits the bytes read from the manifest;
	// DefaultMaxManifestSize when zero or negative.
	MaxSize int64
}

// NewManifestSource returns a discovering ManifestSource.
func NewManifestSource() *ManifestSource {
	return &ManifestSource{}
}

// Resolve reads the manifest and returns the requested fields present
// in the namespace's metadata table.
func (s *ManifestSource) Resolve(namespace string, fields []Field) (map[string]any, error) {
	table, err := s.Table(namespace)
	if err != nil {
		if errors.Is(err, ErrManifestNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	resolved := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := table[f.Name]; ok {
			resolved[f.Name] = v
		}
	}
	return resolved, nil
}

// Table returns the package.metadata.<namespace> table of the manifest.
// It fails with ErrManifestNotFound when no manifest can be located; a
// located manifest without the table yields an empty map.
func (s *ManifestSource) Table(namespace string) (map[string]any, error) {
	path, err := s.Locate()
	if err != nil {
		return nil, err
	}

	manifest, err := s.parse(path)
	if err != nil {
		return nil, err
	}

	raw := navigateMap(manifest, "package", "metadata", namespace)
	if raw == nil {
		return map[string]any{}, nil
	}
	table, ok := asStringMap(raw)
	if !ok {
		return nil, fmt.Errorf("manifest %q: package.metadata.%s is not a table", path, namespace)
	}
	return table, nil
}

// Locate returns the manifest path that would be read, or
// ErrManifestNotFound.
func (s *ManifestSource) Locate() (string, error) {
	if s.Path != "" {
		if _, err := os.Stat(s.Path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", ErrManifestNotFound
			}
			return "", fmt.Errorf("failed to stat manifest %q: %w", s.Path, err)
		}
		return s.Path, nil
	}

	if path := os.Getenv(EnvManifest); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", ErrManifestNotFound
	}

	if dir := os.Getenv(EnvManifestDir); dir != "" {
		if path, ok := probeDir(dir); ok {
			return path, nil
		}
		return "", ErrManifestNotFound
	}

	// Walk up from the working directory, the manifest belongs to the
	// nearest enclosing project.
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	for {
		if path, ok := probeDir(dir); ok {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

func probeDir(dir string) (string, bool) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// parse reads and decodes the manifest into a nested map.
func (s *ManifestSource) parse(path string) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %q: %w", path, err)
	}
	defer file.Close()

	maxSize := s.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxManifestSize
	}
	data, err := io.ReadAll(io.LimitReader(file, maxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	manifest := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to parse TOML manifest %q: %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&manifest); err != nil {
			return nil, fmt.Errorf("failed to parse JSON manifest %q: %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine manifest format for %q", path)
	}

	return manifest, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try TOML before YAML: YAML accepts nearly anything
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
