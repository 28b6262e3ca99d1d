package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, "img", cfg.ImageDir)
	assert.Equal(t, "http://localhost:1313", cfg.LocalAuthority)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	require.NoError(t, cfg.Validate())
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("baseURL: https://example.org/book/\nconcurrency: 2\nretry:\n  attempts: 5\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/book/", cfg.BaseURL)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 5, cfg.Retry.Attempts)
	assert.Equal(t, DefaultRetryBackoff, cfg.Retry.Backoff)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, "img", cfg.ImageDir)
}

func TestParse_EmptyStringsFallBack(t *testing.T) {
	cfg, err := Parse([]byte("outputDir: \"\"\nimageDir: \"\"\nfetchTimeout: 5s\n"))
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, "img", cfg.ImageDir)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"concurrency too large", "concurrency: 500\n", "concurrency must not exceed 64"},
		{"negative attempts", "retry:\n  attempts: -1\n", "retry.attempts must be at least 1"},
		{"relative authority", "localAuthority: localhost\n", "localAuthority must be an absolute URL"},
		{"backoff above max", "retry:\n  backoff: 10s\n  maxBackoff: 1s\n", "retry.maxBackoff must not be less than Backoff"},
		{"bad yaml", "concurrency: [\n", "config:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte("imageDir: images\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "images", cfg.ImageDir)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyDefaults_MaxBackoff(t *testing.T) {
	cfg := Build{Retry: Retry{Backoff: 10 * time.Second}}
	cfg.ApplyDefaults()
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxBackoff)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestDetermineBaseURL(t *testing.T) {
	assert.Equal(t, "/", DetermineBaseURL(""))
	assert.Equal(t, "/", DetermineBaseURL("   "))
	assert.Equal(t, "/book/", DetermineBaseURL(" /book/ "))
}
