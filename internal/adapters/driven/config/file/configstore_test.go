package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

func TestConfigStore_Load_MissingFile(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDetectionConfig(), cfg)
}

func TestConfigStore_Load_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
content_similarity_threshold = 0.75
hash_algorithm = "md5"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.HashAlgorithmMD5, cfg.HashAlgorithm)
	assert.Equal(t, 0.75, cfg.ContentSimilarityThreshold)

	// Unnamed keys keep their defaults, including the enable flags.
	assert.Equal(t, 0.8, cfg.FilenameSimilarityThreshold)
	assert.True(t, cfg.EnableHashDetection)
	assert.True(t, cfg.EnableFuzzyMatching)
}

func TestConfigStore_Load_DisablesStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `enable_similarity_analysis = false`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.False(t, cfg.EnableSimilarityAnalysis)
	assert.True(t, cfg.EnableHashDetection)
}

func TestConfigStore_Load_RepairsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
hash_algorithm = "crc32"
content_similarity_threshold = 7.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.HashAlgorithmSHA256, cfg.HashAlgorithm)
	assert.Equal(t, 0.9, cfg.ContentSimilarityThreshold)
}

func TestConfigStore_Load_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.Error(t, err)
}

func TestConfigStore_Path(t *testing.T) {
	store, err := NewConfigStore("/etc/docsweep/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/docsweep/config.toml", store.Path())
}
