package cpu

import (
	"github.com/cespare/xxhash"
	"github.com/fsnotify/fsnotify"
	"os"
	"path/filepath"
	"sync"
)

// WatchBreakpoints watches path's directory (editors commonly rewrite a
// file via rename-replace, which a direct file watch can miss) and
// reloads the breakpoint file whenever its xxhash fingerprint actually
// changes, deduplicating the multiple filesystem events a single save
// often produces. The returned stop func tears the watcher down; it is
// safe to call more than once.
func (c *CPU) WatchBreakpoints(path string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	c.BreakpointFile = path
	done := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c.reloadIfChanged(path)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() { stopOnce.Do(func() { close(done) }) }, nil
}

func (c *CPU) reloadIfChanged(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		c.logger.Errorf("cpu: re-reading breakpoint file %s: %v", path, err)
		return
	}
	if xxhash.Sum64(raw) == c.breakpointFingerprint {
		return
	}
	if err := c.LoadBreakpoints(path); err != nil {
		c.logger.Errorf("cpu: reloading breakpoint file %s: %v", path, err)
		return
	}
	c.logger.Infof("cpu: reloaded breakpoint file %s", path)
}
