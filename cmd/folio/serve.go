package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/spf13/cobra"
)

const rebuildDebounce = 300 * time.Millisecond

func newServeCommand(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, serve the output directory and rebuild on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := a.module.Logger("folio.serve")
			cfg := a.module.Config()

			var buildMu sync.Mutex
			build := func() {
				buildMu.Lock()
				defer buildMu.Unlock()
				err := a.module.Handlers().BuildSite.Execute(ctx, sitecmd.BuildSiteCommand{
					ResultCallback: func(r *generator.BuildResult) { printBuildResult(cmd, r) },
				})
				if err != nil && ctx.Err() == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "build failed:", err)
				}
			}
			build()

			if watch {
				dirs := []string{cfg.Content.Dir, cfg.Generator.StaticDir}
				w, err := newRebuildWatcher(dirs, rebuildDebounce, build, logger)
				if err != nil {
					return err
				}
				defer w.Close()
				go w.Run(ctx)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           http.FileServer(http.Dir(cfg.Generator.OutputDir)),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on http://%s\n", cfg.Generator.OutputDir, displayAddr(addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", true, "rebuild when content or static files change")
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// rebuildWatcher coalesces bursts of filesystem events into a single rebuild.
type rebuildWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	rebuild  func()
	logger   interfaces.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func newRebuildWatcher(dirs []string, debounce time.Duration, rebuild func(), logger interfaces.Logger) (*rebuildWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &rebuildWatcher{
		watcher:  watcher,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger,
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := w.addTree(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches dir and its sub-directories. A missing dir is ignored.
func (w *rebuildWatcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *rebuildWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.stop()
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.stop()
				return
			}
			w.logger.Warn("serve.watch.error", "error", err)
		}
	}
}

func (w *rebuildWatcher) handle(event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addTree(event.Name)
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("serve.watch.changed", "path", event.Name, "op", event.Op.String())
	w.schedule()
}

func (w *rebuildWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.rebuild)
}

func (w *rebuildWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops pending rebuilds and releases the watcher.
func (w *rebuildWatcher) Close() error {
	w.stop()
	return w.watcher.Close()
}
