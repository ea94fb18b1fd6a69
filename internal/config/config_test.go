package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"KB_DATABASE_PATH", "GEMINI_API_KEY", "GEN_MODEL", "YOUTUBE_API_KEY",
		"PORT", "MAX_UPLOAD_MB", "AWS_ACCESS_KEY", "AWS_SECRET_KEY", "KB_CONFIG_PATH",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("KB_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := LoadConfig()
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultGenModel, cfg.GenModel)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, int64(100), cfg.MaxUploadMB)
	assert.Equal(t, DefaultChunkSize, cfg.Tuning.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.Tuning.ChunkOverlap)
	assert.Equal(t, DefaultRetrievalLimit, cfg.Tuning.RetrievalLimit)
	assert.Equal(t, DefaultModelFallbacks, cfg.Tuning.ModelFallbacks)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("KB_DATABASE_PATH", "/data/kb.db")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_MB", "250")
	t.Setenv("KB_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := LoadConfig()
	assert.Equal(t, "/data/kb.db", cfg.DatabasePath)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(250), cfg.MaxUploadMB)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("KB_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := LoadConfig()
	assert.Equal(t, int64(100), cfg.MaxUploadMB)
}

func TestArchiveEnabledNeedsBothKeys(t *testing.T) {
	cfg := &Config{AwsAccessKey: "AKIA..."}
	assert.False(t, cfg.ArchiveEnabled())

	cfg.AwsSecretKey = "secret"
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadTuningFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte("chunk_size: 500\nchunk_overlap: 50\nmodel_fallbacks:\n  - custom-model\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tuning, _, err := loadTuning(path)
	require.NoError(t, err)
	require.NotNil(t, tuning)
	assert.Equal(t, 500, tuning.ChunkSize)
	assert.Equal(t, 50, tuning.ChunkOverlap)
	// Unset fields keep their defaults.
	assert.Equal(t, DefaultRetrievalLimit, tuning.RetrievalLimit)
	assert.Equal(t, []string{"custom-model"}, tuning.ModelFallbacks)
}

func TestLoadTuningMissingFileIsNotAnError(t *testing.T) {
	tuning, _, err := loadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, tuning)
}

func TestLoadTuningMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: [not an int"), 0o644))

	_, _, err := loadTuning(path)
	require.Error(t, err)
}
