package configure_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withoutboats/configure"
)

func envFields(names ...string) []configure.Field {
	fields := make([]configure.Field, len(names))
	for i, name := range names {
		fields[i] = configure.Field{Name: name}
	}
	return fields
}

func TestEnvSource(t *testing.T) {
	t.Run("Naming Convention", func(t *testing.T) {
		assert.Equal(t, "FOO_BAR", configure.EnvName("foo", "bar"))
		assert.Equal(t, "MY_LIB_MAX_CONNS", configure.EnvName("my-lib", "max_conns"))
		assert.Equal(t, "A_B_C_D", configure.EnvName("a.b", "c.d"))
	})

	t.Run("Basic Lookup", func(t *testing.T) {
		t.Setenv("FOO_BAR", "42")

		resolved, err := configure.EnvSource{}.Resolve("foo", envFields("bar", "baz"))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"bar": "42"}, resolved)
	})

	t.Run("Empty Value Is Absent", func(t *testing.T) {
		t.Setenv("FOO_BAR", "")

		resolved, err := configure.EnvSource{}.Resolve("foo", envFields("bar"))
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})

	t.Run("Prefix", func(t *testing.T) {
		t.Setenv("MYAPP_FOO_BAR", "prefixed")
		t.Setenv("FOO_BAR", "bare")

		resolved, err := configure.EnvSource{Prefix: "MYAPP_"}.Resolve("foo", envFields("bar"))
		require.NoError(t, err)
		assert.Equal(t, "prefixed", resolved["bar"])
	})

	t.Run("Custom Transform", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")

		src := configure.EnvSource{
			Transform: func(namespace, field string) string {
				mapping := map[string]string{"url": "DATABASE_URL"}
				return mapping[field]
			},
		}
		resolved, err := src.Resolve("db", envFields("url"))
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/test", resolved["url"])
	})

	t.Run("Oversized Value Rejected", func(t *testing.T) {
		t.Setenv("FOO_BAR", strings.Repeat("x", configure.MaxValueSize+1))

		_, err := configure.EnvSource{}.Resolve("foo", envFields("bar"))
		assert.ErrorIs(t, err, configure.ErrValueSize)
	})
}
