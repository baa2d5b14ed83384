package watcher

import "context"

// FileWatcher monitors a source tree for changes with debouncing and
// pause/resume support.
type FileWatcher interface {
	// Start begins watching, calling callback with each debounced batch of changed files.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and releases its resources.
	Stop() error

	// Pause stops firing callbacks but keeps accumulating events.
	Pause()

	// Resume fires callbacks again. Events accumulated during the pause fire immediately.
	Resume()
}
