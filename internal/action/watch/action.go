package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cmmoran/equalgen/internal/action/generate"
	"github.com/cmmoran/equalgen/internal/parser"
)

// DefaultDebounce is how long a burst of changes must stay quiet before a run.
const DefaultDebounce = 250 * time.Millisecond

// Run generates once, then again after every burst of .go changes below
// opts.InDir, until ctx is done. Failed runs are logged and watching goes on.
func Run(ctx context.Context, opts *parser.Options, debounce time.Duration, w io.Writer, l *slog.Logger) error {
	if l == nil {
		l = slog.Default()
	}
	opts.Normalize()

	run := func(ctx context.Context) error {
		_, err := generate.Run(ctx, opts, w, l)
		return err
	}
	if err := run(ctx); err != nil {
		l.With("error", err).Error("generate failed")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err = addTree(watcher, opts.InDir); err != nil {
		return err
	}
	l.With("dir", opts.InDir).Info("watching for changes")
	return loop(ctx, watcher, opts.OutFile, debounce, l, run)
}

func loop(ctx context.Context, watcher *fsnotify.Watcher, outFile string, debounce time.Duration, l *slog.Logger, run func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err = addTree(watcher, ev.Name); err != nil {
						l.With("dir", ev.Name, "error", err).Warn("failed to watch directory")
					}
					continue
				}
			}
			if !Relevant(ev, outFile) {
				continue
			}
			l.With("file", ev.Name, "op", ev.Op.String()).Debug("change detected")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.With("error", err).Warn("watcher error")
		case <-fire:
			fire = nil
			if err := run(ctx); err != nil {
				l.With("error", err).Error("generate failed")
			}
		}
	}
}

// Relevant reports whether ev touches a Go source file other than a
// generated one.
func Relevant(ev fsnotify.Event, outFile string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if filepath.Ext(base) != ".go" {
		return false
	}
	return base != outFile && base != strings.TrimSuffix(outFile, ".go")+"_test.go"
}

// addTree watches root and every directory below it the go command would
// consider.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor"
}
