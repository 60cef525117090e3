package configure

import (
	"context"
	"os"
	"time"
)

const (
	// DefaultPollInterval between manifest stat checks.
	DefaultPollInterval = 1 * time.Second

	// DefaultDebounce before a change notification fires, so an editor
	// writing in several steps produces one notification.
	DefaultDebounce = 500 * time.Millisecond
)

// WatchOptions configures manifest watching.
type WatchOptions struct {
	// PollInterval for manifest stat checks.
	PollInterval time.Duration

	// Debounce is how long the manifest must stay quiet after a change
	// before a notification fires. Zero notifies on the next poll.
	Debounce time.Duration
}

// DefaultWatchOptions returns the standard watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,
	}
}

// Watch polls the manifest and signals on the returned channel when it
// changes, appears, or disappears. Configuration itself is never
// refreshed behind the caller's back: the owning component decides what
// a notification means, typically calling Regenerate on its records and
// keeping the old values if that fails.
//
// Notifications coalesce: a change arriving while one is already
// pending is absorbed into it. The channel closes when ctx is done.
func (s *ManifestSource) Watch(ctx context.Context, opts WatchOptions) <-chan struct{} {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = DefaultDebounce
	}

	ch := make(chan struct{}, 1)
	// Fingerprint synchronously so a change made right after Watch
	// returns is never mistaken for the starting state.
	go s.watchLoop(ctx, opts, ch, s.stateNow())
	return ch
}

// manifestState is the fingerprint a poll compares against.
type manifestState struct {
	path    string
	modTime time.Time
	size    int64
}

func (s *ManifestSource) stateNow() manifestState {
	path, err := s.Locate()
	if err != nil {
		return manifestState{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return manifestState{path: path}
	}
	return manifestState{path: path, modTime: info.ModTime(), size: info.Size()}
}

func (s *ManifestSource) watchLoop(ctx context.Context, opts WatchOptions, ch chan<- struct{}, last manifestState) {
	defer close(ch)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	pending := false
	var quietSince time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current := s.stateNow()
		if current != last {
			last = current
			pending = true
			quietSince = time.Now()
			continue
		}

		if pending && time.Since(quietSince) >= opts.Debounce {
			pending = false
			select {
			case ch <- struct{}{}:
			default:
				// A notification is already pending; coalesce.
			}
		}
	}
}
