package configure_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withoutboats/configure"
)

func TestFallback(t *testing.T) {
	t.Run("First Layer Wins Per Field", func(t *testing.T) {
		src := configure.Fallback(
			configure.StaticSource{"foo": {"bar": 1}},
			configure.StaticSource{"foo": {"bar": 2, "baz": "lower"}},
		)

		resolved, err := src.Resolve("foo", envFields("bar", "baz"))
		require.NoError(t, err)

		assert.Equal(t, 1, resolved["bar"], "earlier layer takes precedence")
		assert.Equal(t, "lower", resolved["baz"], "absent fields fall through")
	})

	t.Run("Layer Error Aborts", func(t *testing.T) {
		boom := errors.New("layer down")
		src := configure.Fallback(
			configure.StaticSource{"foo": {"bar": 1}},
			configure.SourceFunc(func(string, []configure.Field) (map[string]any, error) {
				return nil, boom
			}),
		)

		_, err := src.Resolve("foo", envFields("bar"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Nil Layer Rejected", func(t *testing.T) {
		src := configure.Fallback(nil)
		_, err := src.Resolve("foo", envFields("bar"))
		assert.ErrorIs(t, err, configure.ErrNilSource)
	})
}

func TestDefaultSourcePrecedence(t *testing.T) {
	t.Run("Environment Beats Manifest", func(t *testing.T) {
		path := writeManifest(t, "Configure.toml", "[package.metadata.foo]\nbar = 7\nbaz = \"from-manifest\"\n")
		t.Setenv(configure.EnvManifest, path)
		t.Setenv("FOO_BAR", "42")

		var cfg fooConfig
		require.NoError(t, configure.FromSource(&cfg, configure.DefaultSource()))

		assert.Equal(t, 42, cfg.Bar, "environment always takes precedence")
		require.NotNil(t, cfg.Baz)
		assert.Equal(t, "from-manifest", *cfg.Baz)
	})

	t.Run("Manifest Alone", func(t *testing.T) {
		path := writeManifest(t, "Configure.toml", "[package.metadata.foo]\nbar = 7\n")
		t.Setenv(configure.EnvManifest, path)

		var cfg fooConfig
		require.NoError(t, configure.FromSource(&cfg, configure.DefaultSource()))
		assert.Equal(t, 7, cfg.Bar)
	})

	t.Run("Neither Layer", func(t *testing.T) {
		noManifest(t)

		var cfg fooConfig
		err := configure.FromSource(&cfg, configure.DefaultSource())
		assert.ErrorIs(t, err, configure.ErrFieldMissing)
	})
}

func TestStaticSource(t *testing.T) {
	src := configure.StaticSource{
		"foo": {"bar": 42, "extra": "unrequested"},
	}

	resolved, err := src.Resolve("foo", envFields("bar"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bar": 42}, resolved, "only requested fields are returned")

	resolved, err = src.Resolve("unknown", envFields("bar"))
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
