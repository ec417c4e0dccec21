package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"job_tracker/internal/blob"
	"job_tracker/internal/config"
	"job_tracker/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

func TestSetupStorage(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := setupStorage(context.Background(), log, &config.Config{DBDriver: config.DBMemory})
	require.NoError(t, err)
	require.IsType(t, &memory.Repo{}, repo)

	_, err = setupStorage(context.Background(), log, &config.Config{DBDriver: "sqlite"})
	require.Error(t, err)
}

func TestSetupBlobStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageLocal
	cfg.Storage.LocalDir = t.TempDir()

	store, err := setupBlobStore(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &blob.Local{}, store)

	cfg.Storage.Driver = "ftp"
	_, err = setupBlobStore(context.Background(), cfg)
	require.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	for _, env := range []string{envLocal, envDev, envProd, "staging"} {
		require.NotNil(t, setupLogger(env))
	}
}
