// Package watch follows the configuration files of a running desktop and
// applies them again when one changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/config"
)

// DefaultDebounce collapses the burst of events one editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Loader reads the configuration and reports every file it came from.
type Loader func() (*config.LoadResult, error)

// Applier pushes a freshly loaded configuration into the desktop.
type Applier func(ctx context.Context, cfg *config.Config) error

type Options struct {
	// Paths are watched even when the loader does not report them, so a
	// config file created after start is picked up.
	Paths    []string
	Debounce time.Duration
	Load     Loader
	Apply    Applier
	Logger   *zap.Logger
}

// Watcher watches the directories holding the config files, since editors
// often replace a file by renaming a temporary one over it. Invalid edits are
// logged and skipped; the desktop keeps its current scene until the files
// validate again.
type Watcher struct {
	debounce time.Duration
	load     Loader
	apply    Applier
	log      *zap.Logger
	paths    []string

	fs    *fsnotify.Watcher
	files map[string]bool
	dirs  map[string]bool
}

func New(opts Options) (*Watcher, error) {
	if opts.Load == nil || opts.Apply == nil {
		return nil, errors.New("watch: loader and applier are required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		debounce: debounce,
		load:     opts.Load,
		apply:    opts.Apply,
		log:      logger.Named("watch"),
		paths:    opts.Paths,
		fs:       fw,
		dirs:     map[string]bool{},
	}, nil
}

// Watch replaces the set of followed files with files plus the fixed paths
// and watches their directories. A directory that does not exist is skipped.
func (w *Watcher) Watch(files []string) error {
	w.files = make(map[string]bool, len(files)+len(w.paths))
	var errs []error
	for _, f := range append(append([]string(nil), w.paths...), files...) {
		f = filepath.Clean(f)
		w.files[f] = true
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", dir, err))
			continue
		}
		w.dirs[dir] = true
	}
	return errors.Join(errs...)
}

// Close stops watching. Run returns once its context is done or Close is
// called.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run reloads after every settled burst of changes to a followed file until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.log.Info("watching config", zap.Int("files", len(w.files)), zap.Int("dirs", len(w.dirs)))

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			changed = filepath.Clean(ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			if _, err := w.reload(ctx, changed); err != nil {
				w.log.Warn("config not applied", zap.String("file", changed), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	return w.files[filepath.Clean(ev.Name)]
}

// reload loads and applies the configuration and reports whether it was
// applied. A panic in either step is returned as an error.
func (w *Watcher) reload(ctx context.Context, changed string) (applied bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("watch: panic during reload: %v", r)
		}
	}()

	res, err := w.load()
	if err != nil {
		return false, err
	}
	if err := w.Watch(res.Files); err != nil {
		w.log.Warn("include not watched", zap.Error(err))
	}
	if err := w.apply(ctx, res.Config); err != nil {
		return false, err
	}
	w.log.Info("config change applied", zap.String("file", changed))
	return true, nil
}
