package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/config"
	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ServerAddress = "127.0.0.1:0"
	cfg.GRPCAddress = "127.0.0.1:0"
	cfg.Mode = config.ModeMemory
	return cfg
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, testConfig(), zap.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.GRPCAddress = "256.0.0.1:-1"

	err := run(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	store, closeStore, err := newStorage(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &storage.MemoryStore{}, store)

	cfg := testConfig()
	cfg.Mode = config.ModeFile
	cfg.FileStoragePath = filepath.Join(t.TempDir(), "prefs.json")

	store, closeStore, err = newStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &storage.FileStore{}, store)
	require.NoError(t, store.SetTheme(ctx, "s1", model.ThemePaper))
}
