// Package watch implements the CLI's `--watch` mode: recompile a set of
// units whenever their source files change on disk. A fsnotify.Watcher is
// wrapped in a debounced event loop feeding a buffered channel of detected
// changes; independent units that changed in one debounce tick recompile
// concurrently via errgroup.WithContext, since nothing about watch mode
// requires serializing unrelated source trees.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/outfield-lang/outfieldc/internal/config"
)

// Event is one debounced batch of changed source files.
type Event struct {
	Files []string
}

// Watcher monitors a directory of Outfield source files and emits a
// debounced Event each time a batch of edits settles.
type Watcher struct {
	Dir     string
	Events  <-chan Event
	Errors  <-chan error
	events  chan Event
	errs    chan error
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a Watcher rooted at dir. Call Start to begin watching.
func New(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ev := make(chan Event, 8)
	errs := make(chan error, 8)
	w := &Watcher{
		Dir: dir, Events: ev, Errors: errs,
		events: ev, errs: errs,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching Dir for changes to recognized source files.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the underlying fsnotify watcher and its channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.events)
	close(w.errs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	const debounce = 150 * time.Millisecond
	pending := make(map[string]bool)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.flush(pending)
				return
			}
			if !config.HasSourceExt(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = true
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			w.flush(pending)
			pending = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) flush(pending map[string]bool) {
	if len(pending) == 0 {
		return
	}
	files := make([]string, 0, len(pending))
	for f := range pending {
		files = append(files, f)
	}
	w.events <- Event{Files: files}
}

// RecompileAll runs compileOne over every file concurrently, returning the
// first error encountered (if any) after all have finished. Each file is
// assumed independent, matching the single-unit compile() entry point's
// non-interaction across units.
func RecompileAll(ctx context.Context, files []string, compileOne func(ctx context.Context, path string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			return compileOne(ctx, f)
		})
	}
	return g.Wait()
}

// ListSourceFiles walks dir for every recognized Outfield source file.
func ListSourceFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && config.HasSourceExt(path) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
