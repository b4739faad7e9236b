package scope

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/driftbrowser/drift/internal/logging"
)

// Watch monitors a manifest file and calls onChange with the freshly
// derived trusted scope whenever the file is rewritten. It blocks until
// the context is cancelled. Manifests that fail to load after a change
// are logged and skipped; the previous scope stays in effect.
func Watch(ctx context.Context, manifestPath string, onChange func(Scope)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save
	// and a file watch dies with the old inode.
	dir := filepath.Dir(manifestPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch manifest dir: %w", err)
	}

	base := filepath.Base(manifestPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			m, err := LoadManifest(manifestPath)
			if err != nil {
				logging.Warnf("manifest reload failed: %v", err)
				continue
			}
			sc, err := m.TrustedScope()
			if err != nil {
				logging.Warnf("manifest has no usable scope: %v", err)
				continue
			}
			onChange(sc)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("manifest watcher error: %v", err)
		}
	}
}
