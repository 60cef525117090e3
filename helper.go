package configure

import (
	"strings"
	"unicode"
)

// toSnake converts a Go field name to its snake_case lookup key.
// Acronym runs stay together: "HTTPPort" becomes "http_port".
func toSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// navigateMap traverses a nested map along the given segments and
// returns the value there, or nil if any segment is missing or leads
// through a non-map value.
func navigateMap(nested map[string]any, segments ...string) any {
	current := any(nested)
	for _, segment := range segments {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}
	return current
}

// asStringMap normalizes a decoded table to map[string]any. YAML can
// produce map[any]any for some key shapes; keys that aren't strings are
// dropped.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}
