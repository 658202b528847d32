// SPDX-License-Identifier: MIT

// Command scan runs the playlist pipeline once: it reads an M3U playlist,
// builds the catalog and writes it as JSON.
//
// Exit codes: 0 success, 1 unreadable or invalid playlist, 2 usage error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/jobs"
	"github.com/ManuGH/m3ucat/internal/log"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	input := fs.String("i", "", "path to the M3U playlist (required)")
	output := fs.String("o", "", "path for the catalog JSON (required)")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: scan -i playlist.m3u -o catalog.json")
		return 2
	}

	log.Configure(log.Config{
		Level:   *logLevel,
		Service: "m3ucat-scan",
		Version: version,
	})
	logger := log.WithComponent("scan")

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldPlaylistPath, *input).
			Msg("failed to read playlist")
		return 1
	}

	text := string(data)
	if !catalog.IsValidPlaylist(text) {
		logger.Error().
			Str(log.FieldPlaylistPath, *input).
			Msg("file is not a valid M3U playlist")
		return 1
	}

	start := time.Now()
	items := catalog.Parse(text)
	groups := catalog.GroupSeries(items)

	if err := jobs.WriteCatalog(context.Background(), *output, items); err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldCatalogPath, *output).
			Msg("failed to write catalog")
		return 1
	}

	logger.Info().
		Str(log.FieldEvent, "scan.success").
		Str(log.FieldPlaylistPath, *input).
		Str(log.FieldCatalogPath, *output).
		Int(log.FieldItems, len(items)).
		Int(log.FieldShows, groups.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog written")
	return 0
}
