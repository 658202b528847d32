// SPDX-License-Identifier: MIT

// Command daemon runs the long-lived catalog service: it keeps an in-memory
// catalog built from an M3U playlist, rebuilds it when the playlist changes
// and serves it over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/m3ucat/internal/api"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/daemon"
	"github.com/ManuGH/m3ucat/internal/jobs"
	xclog "github.com/ManuGH/m3ucat/internal/log"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	xclog.Configure(xclog.Config{
		Level:   "info",
		Service: "m3ucat",
		Version: version,
	})
	logger := xclog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xclog.FieldEvent, "config.load_failed").
			Str(xclog.FieldPath, *configPath).
			Msg("failed to load configuration")
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str(xclog.FieldEvent, "config.invalid").
			Msg("configuration is invalid")
	}
	xclog.SetLevel(cfg.LogLevel)

	logger.Info().
		Str(xclog.FieldEvent, "daemon.starting").
		Str(xclog.FieldPlaylistPath, cfg.PlaylistPath).
		Str("listen", cfg.ListenAddr).
		Bool("watch", cfg.WatchPlaylist).
		Msg("starting catalog daemon")

	holder := config.NewHolder(cfg, loader, *configPath)
	apiServer := api.New(cfg)

	// Initial catalog build. A failure is not fatal: the daemon starts in the
	// preparing state and the watcher or a manual refresh recovers it.
	if result, err := jobs.Refresh(ctx, cfg); err != nil {
		logger.Error().
			Err(err).
			Str(xclog.FieldEvent, "refresh.initial_failed").
			Msg("initial refresh failed, serving in preparing state")
	} else {
		apiServer.SetResult(result)
	}

	metricsAddr := ""
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsAddr = cfg.MetricsAddr
		metricsHandler = promhttp.Handler()
	}

	manager, err := daemon.NewManager(config.ParseServerConfig(), cfg.ListenAddr, apiServer.Handler(), metricsAddr, metricsHandler)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xclog.FieldEvent, "daemon.setup_failed").
			Msg("failed to create daemon manager")
	}

	app := daemon.NewApp(manager, holder, apiServer)
	if err := app.Run(ctx); err != nil {
		logger.Error().
			Err(err).
			Str(xclog.FieldEvent, "daemon.stopped").
			Msg("daemon stopped with error")
		os.Exit(1)
	}

	logger.Info().
		Str(xclog.FieldEvent, "daemon.stopped").
		Msg("daemon stopped")
}
