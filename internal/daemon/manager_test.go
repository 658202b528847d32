// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/m3ucat/internal/api"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/jobs"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func waitForListen(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", addr)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(testServerConfig(), "", http.NotFoundHandler(), "", nil)
	assert.Error(t, err)

	_, err = NewManager(testServerConfig(), "127.0.0.1:0", nil, "", nil)
	assert.Error(t, err)

	mgr, err := NewManager(testServerConfig(), "127.0.0.1:0", http.NotFoundHandler(), "", nil)
	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestManagerStartAndShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(), addr, http.NotFoundHandler(), "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	waitForListen(t, addr)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManagerStartsMetricsListener(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	apiAddr := reserveListenAddr(t)
	metricsAddr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(), apiAddr, http.NotFoundHandler(), metricsAddr, http.NotFoundHandler())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	waitForListen(t, apiAddr)
	waitForListen(t, metricsAddr)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), "127.0.0.1:0", http.NotFoundHandler(), "", nil)
	require.NoError(t, err)

	err = mgr.Shutdown(t.Context())
	assert.ErrorIs(t, err, ErrManagerNotStarted)
}

func TestShutdownHooksRunLIFO(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(), addr, http.NotFoundHandler(), "", nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownHook {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	mgr.RegisterShutdownHook("first", record("first"))
	mgr.RegisterShutdownHook("second", record("second"))
	mgr.RegisterShutdownHook("failing", func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "failing")
		return errors.New("hook failure")
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	waitForListen(t, addr)
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err, "failing hook surfaces as shutdown error")
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"failing", "second", "first"}, order)
}

func TestAppPlaylistWatcherTriggersRefresh(t *testing.T) {
	// signal.Notify keeps one process-wide goroutine alive after Stop.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreTopFunction("os/signal.loop"))

	dir := t.TempDir()
	playlistPath := filepath.Join(dir, "list.m3u")
	require.NoError(t, os.WriteFile(playlistPath, []byte("#EXTM3U\n"), 0o644))

	cfg := config.Defaults()
	cfg.PlaylistPath = playlistPath
	cfg.DataDir = dir

	loader := config.NewLoader("", "test")
	holder := config.NewHolder(cfg, loader, "")

	apiServer := api.New(cfg)
	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(), addr, apiServer.Handler(), "", nil)
	require.NoError(t, err)

	app := NewApp(mgr, holder, apiServer)

	refreshed := make(chan struct{}, 4)
	app.refreshFn = func(context.Context, config.AppConfig) (*jobs.Result, error) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
		return &jobs.Result{}, nil
	}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	waitForListen(t, addr)

	// Touch the playlist; the debounced watcher must fire a refresh.
	require.NoError(t, os.WriteFile(playlistPath, []byte("#EXTM3U\n#EXTINF:-1,X\nhttp://x/1\n"), 0o644))

	select {
	case <-refreshed:
	case <-time.After(5 * time.Second):
		t.Fatal("playlist change did not trigger a refresh")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
