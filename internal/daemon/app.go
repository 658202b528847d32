// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/m3ucat/internal/api"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/jobs"
	"github.com/ManuGH/m3ucat/internal/log"
)

// App owns the long-lived runtime lifecycle (playlist watcher, reload wiring,
// signal handling) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	holder       *config.Holder
	apiServer    *api.Server
	reloadSignal os.Signal

	// refreshFn allows tests to stub the refresh operation.
	refreshFn func(context.Context, config.AppConfig) (*jobs.Result, error)
}

// NewApp creates the runtime orchestrator.
func NewApp(manager Manager, holder *config.Holder, apiServer *api.Server) *App {
	return &App{
		logger:       log.WithComponent("daemon"),
		manager:      manager,
		holder:       holder,
		apiServer:    apiServer,
		reloadSignal: syscall.SIGHUP,
		refreshFn:    jobs.Refresh,
	}
}

// Run starts all background subsystems and blocks until ctx is cancelled or a
// fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup does not fail when the watcher
	// cannot be created.
	if err := a.holder.StartWatcher(ctx); err != nil {
		a.logger.Warn().
			Err(err).
			Str(log.FieldEvent, "config.watcher_start_failed").
			Msg("failed to start config watcher")
	}

	// Apply every successful config reload to the API server and rebuild the
	// catalog under the new configuration.
	applyCh := make(chan config.AppConfig, 1)
	a.holder.RegisterListener(applyCh)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case cfg := <-applyCh:
				a.apiServer.SetConfig(cfg)
				a.refresh(ctx)
			}
		}
	})

	// SIGHUP triggers a manual config reload.
	g.Go(func() error {
		hupChan := make(chan os.Signal, 1)
		signal.Notify(hupChan, a.reloadSignal)
		defer signal.Stop(hupChan)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hupChan:
				a.logger.Info().
					Str(log.FieldEvent, "config.reload_signal").
					Str("signal", a.reloadSignal.String()).
					Msg("received reload signal, reloading config")
				if err := a.holder.Reload(ctx); err != nil {
					a.logger.Warn().
						Err(err).
						Str(log.FieldEvent, "config.reload_failed").
						Msg("config reload failed")
				}
			}
		}
	})

	// Playlist watcher re-runs the refresh when the playlist file changes.
	if a.holder.Current().WatchPlaylist {
		if err := a.watchPlaylist(ctx, g); err != nil {
			a.logger.Warn().
				Err(err).
				Str(log.FieldEvent, "playlist.watcher_start_failed").
				Msg("failed to start playlist watcher")
		}
	}

	// Server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.WithoutCancel(ctx))
		}
		return err
	})

	return g.Wait()
}

// refresh rebuilds the catalog and swaps it into the API server. Failures are
// logged; the previously served catalog stays live.
func (a *App) refresh(ctx context.Context) {
	result, err := a.refreshFn(ctx, a.holder.Current())
	if err != nil {
		a.logger.Error().
			Err(err).
			Str(log.FieldEvent, "refresh.failed").
			Msg("background refresh failed")
		return
	}
	a.apiServer.SetResult(result)
}

// watchPlaylist watches the playlist file and triggers a debounced refresh on
// every write. Editors that replace the file are covered by the Create event.
func (a *App) watchPlaylist(ctx context.Context, g *errgroup.Group) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	path := a.holder.Current().PlaylistPath
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return err
	}

	a.logger.Info().
		Str(log.FieldEvent, "playlist.watcher_started").
		Str(log.FieldPlaylistPath, path).
		Msg("watching playlist file for changes")

	g.Go(func() error {
		var debounceTimer *time.Timer
		const debounceDuration = 500 * time.Millisecond

		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			_ = watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				a.logger.Info().
					Str(log.FieldEvent, "playlist.watcher_stopped").
					Msg("playlist watcher stopped")
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(debounceDuration, func() {
						a.logger.Info().
							Str(log.FieldEvent, "playlist.changed").
							Str(log.FieldPlaylistPath, path).
							Msg("playlist changed, refreshing catalog")
						a.refresh(ctx)
					})
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				a.logger.Error().
					Err(err).
					Str(log.FieldEvent, "playlist.watcher_error").
					Msg("playlist watcher error")
			}
		}
	})

	return nil
}
