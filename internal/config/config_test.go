package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":9871", c.Addr())
	assert.Equal(t, 24*time.Hour, c.Engine.SweepInterval)
	assert.Equal(t, 8, c.Engine.SweepConcurrency)
	assert.False(t, c.Engine.RunOnStart)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 8088
engine:
  sweep_interval: 6h
  sweep_concurrency: 4
database:
  host: db.internal
  name: campus
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("SWEEP_CONCURRENCY", "16")
	t.Setenv("SWEEP_ON_START", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	c := Load(path)
	assert.Equal(t, ":8088", c.Addr())
	assert.Equal(t, 6*time.Hour, c.Engine.SweepInterval)
	assert.Equal(t, 16, c.Engine.SweepConcurrency)
	assert.True(t, c.Engine.RunOnStart)
	assert.Equal(t, "db.internal", c.Database.Host)
	assert.Equal(t, "campus", c.Database.Name)
	assert.Equal(t, "s3cret", c.Auth.JWTSecret)
}

func TestLoadClampsEngine(t *testing.T) {
	t.Setenv("SWEEP_CONCURRENCY", "0")
	t.Setenv("SWEEP_INTERVAL", "-1m")

	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, c.Engine.SweepConcurrency)
	assert.Equal(t, 24*time.Hour, c.Engine.SweepInterval)
}

func TestNewRawClientDisabledWithoutKey(t *testing.T) {
	t.Setenv("MOI_API_KEY", "")
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	raw, err := c.NewRawClient()
	require.NoError(t, err)
	assert.Nil(t, raw)
}
