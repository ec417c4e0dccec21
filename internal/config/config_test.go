package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMustLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
env: "prod"
db_driver: "memory"
http_server:
  address: ":9090"
tokens:
  secret: "s3cr3t"
  access_token_ttl: 30m
storage:
  driver: "s3"
  s3:
    bucket: "cv"
uploads:
  max_size: 1024
  allowed_ext: ["pdf"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg := MustLoad(path)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, DBMemory, cfg.DBDriver)
	require.Equal(t, ":9090", cfg.HTTPServer.Address)
	require.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	require.Equal(t, "s3cr3t", cfg.Tokens.Secret)
	require.Equal(t, 30*time.Minute, cfg.Tokens.AccessTokenTTL)
	require.Equal(t, StorageS3, cfg.Storage.Driver)
	require.Equal(t, "cv", cfg.Storage.S3.Bucket)
	require.Equal(t, int64(1024), cfg.Uploads.MaxSize)
	require.Equal(t, []string{"pdf"}, cfg.Uploads.AllowedExt)
	require.False(t, cfg.Tokens.IsInsecure())
}

func TestMustLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg := MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, DBPostgres, cfg.DBDriver)
	require.Equal(t, InsecureSecret, cfg.Tokens.Secret)
	require.Equal(t, 60*time.Minute, cfg.Tokens.AccessTokenTTL)
	require.Equal(t, StorageLocal, cfg.Storage.Driver)
	require.Equal(t, int64(5<<20), cfg.Uploads.MaxSize)
	require.Equal(t, []string{"pdf", "txt"}, cfg.Uploads.AllowedExt)
	require.True(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Tokens.IsInsecure())
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("UPLOAD_MAX_SIZE", "10")

	cfg := MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Equal(t, "from-env", cfg.Tokens.Secret)
	require.Equal(t, int64(10), cfg.Uploads.MaxSize)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	require.Equal(t, DefaultConfigPath, Path())

	t.Setenv("CONFIG_PATH", "/etc/jt.yaml")
	require.Equal(t, "/etc/jt.yaml", Path())
}

func TestTokensIsInsecure(t *testing.T) {
	for _, secret := range []string{"", InsecureSecret, "change-me", "changeme", " change-me "} {
		require.True(t, Tokens{Secret: secret}.IsInsecure(), secret)
	}

	require.False(t, Tokens{Secret: "s3cr3t-from-vault"}.IsInsecure())
}

func TestSampleConfigSecretIsFlagged(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg := MustLoad(filepath.Join("..", "..", "config", "config.yaml"))

	require.True(t, cfg.Tokens.IsInsecure())
}
