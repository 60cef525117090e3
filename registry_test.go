package configure_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withoutboats/configure"
)

func TestRegistry(t *testing.T) {
	t.Run("Install Once", func(t *testing.T) {
		registry := configure.NewRegistry()
		src := configure.StaticSource{}

		require.NoError(t, registry.Install(src))
		assert.Equal(t, configure.Source(src), registry.Active())
	})

	t.Run("Second Install Rejected", func(t *testing.T) {
		registry := configure.NewRegistry()
		first := configure.StaticSource{"a": {"x": 1}}
		second := configure.StaticSource{"b": {"y": 2}}

		require.NoError(t, registry.Install(first))
		err := registry.Install(second)
		assert.ErrorIs(t, err, configure.ErrSourceInstalled)

		// The first source stays active.
		assert.Equal(t, configure.Source(first), registry.Active())
	})

	t.Run("Nil Source Rejected", func(t *testing.T) {
		registry := configure.NewRegistry()
		assert.ErrorIs(t, registry.Install(nil), configure.ErrNilSource)

		// A rejected nil does not count as the one install.
		require.NoError(t, registry.Install(configure.StaticSource{}))
	})

	t.Run("Active Latches Default", func(t *testing.T) {
		registry := configure.NewRegistry()

		src := registry.Active()
		require.NotNil(t, src)
		assert.True(t, src == registry.Active(), "latched source never changes")
	})

	t.Run("Install After Resolution Rejected", func(t *testing.T) {
		registry := configure.NewRegistry()
		_ = registry.Active()

		err := registry.Install(configure.StaticSource{})
		assert.ErrorIs(t, err, configure.ErrSourceInstalled)
	})

	t.Run("MustInstall Panics On Violation", func(t *testing.T) {
		registry := configure.NewRegistry()
		registry.MustInstall(configure.StaticSource{})

		assert.Panics(t, func() {
			registry.MustInstall(configure.StaticSource{})
		})
	})

	t.Run("Concurrent Active", func(t *testing.T) {
		registry := configure.NewRegistry()

		var wg sync.WaitGroup
		sources := make([]configure.Source, 16)
		for i := range sources {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sources[i] = registry.Active()
			}(i)
		}
		wg.Wait()

		for _, src := range sources {
			require.NotNil(t, src)
			assert.True(t, sources[0] == src, "every reader sees the same source")
		}
	})
}

func TestGlobalRegistry(t *testing.T) {
	// Latch the process-wide default first so the outcome does not
	// depend on test order.
	src := configure.Active()
	require.NotNil(t, src)

	err := configure.Install(configure.StaticSource{})
	assert.ErrorIs(t, err, configure.ErrSourceInstalled)

	assert.Panics(t, func() {
		configure.MustInstall(configure.StaticSource{})
	})

	assert.True(t, src == configure.Active())
}
