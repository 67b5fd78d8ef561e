package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	if private != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	}
	return dir
}

const validPublic = `
max_total_attachment_size: 10485760
max_attachments_per_post: 4
flash_ttl: 30s
database:
  driver: sqlite
  sqlite_path: scoula.db
`

func TestMustLoad(t *testing.T) {
	dir := writeConfig(t, validPublic, "pg:\n  host: db\n  port: 5432\n  password: secret\n")

	cfg := MustLoad(dir)

	assert.Equal(t, ":8080", cfg.Public.Addr)
	assert.Equal(t, 30*time.Second, cfg.Public.FlashTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Public.SlowRequestThreshold)
	assert.Equal(t, MediaFS, cfg.Public.Media.Backend)
	assert.Equal(t, DriverSqlite, cfg.Public.Database.Driver)
	assert.Equal(t, "db", cfg.Private.Pg.Host)
	assert.Contains(t, cfg.PgDSN(), "sslmode=disable")
}

func TestMustLoad_EnvOverridesSecrets(t *testing.T) {
	dir := writeConfig(t, validPublic, "pg:\n  password: from-file\n")
	t.Setenv("SCOULA_PG_PASSWORD", "from-env")
	t.Setenv("SCOULA_S3_SECRET_KEY", "s3-secret")

	cfg := MustLoad(dir)

	assert.Equal(t, "from-env", cfg.Private.Pg.Password)
	assert.Equal(t, "s3-secret", cfg.Private.S3.SecretKey)
}

func TestMustLoad_PrivateIsOptional(t *testing.T) {
	dir := writeConfig(t, validPublic, "")

	assert.NotPanics(t, func() { MustLoad(dir) })
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// max_attachments_per_post is intentionally missing
	dir := writeConfig(t, "max_total_attachment_size: 1024\ndatabase:\n  driver: sqlite\n  sqlite_path: x.db\n", "")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoad_SqliteNeedsPath(t *testing.T) {
	dir := writeConfig(t, "max_total_attachment_size: 1024\nmax_attachments_per_post: 1\ndatabase:\n  driver: sqlite\n", "")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoad_S3NeedsBucket(t *testing.T) {
	dir := writeConfig(t, validPublic+"media:\n  backend: s3\n  s3:\n    region: eu-central-1\n", "")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad(t.TempDir()) })
}
