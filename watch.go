package zealgfx

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bodgit/zealgfx/asset"
	"github.com/howeyc/fsnotify"
)

const settleTime = 100 * time.Millisecond

// Watch exports file and then exports it again every time it changes until
// ctx is cancelled. Changes are only acted on once the file has been quiet
// for a short while. A failed export is logged and watching continues.
func (e *Exporter) Watch(ctx context.Context, file string, opts asset.Options) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	run := time.After(time.Millisecond)
	for {
		select {
		case <-run:
			if _, err := e.ExportFile(file, opts); err != nil {
				e.logger.Printf("watch: %v\n", err)
			}
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == file && !ev.IsAttrib() {
				run = time.After(settleTime)
			}
		case err := <-watcher.Error:
			e.logger.Printf("watch: watcher: %v\n", err)
		case <-ctx.Done():
			return nil
		}
	}
}
