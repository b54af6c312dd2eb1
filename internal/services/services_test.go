package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitmark/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.CachePath = filepath.Join(t.TempDir(), "volumes.db")
	return cfg
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kanji = map[string]string{"學": "学"}

	s, err := New(cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Resolver)
	assert.NotNil(t, s.Cache)
	assert.NotNil(t, s.Viewer)
	assert.Equal(t, cfg.OutputDir, s.Store.OutputDir())
	assert.Equal(t, "学楽", s.Kanji.Normalize("學樂"))
}

func TestNew_InvalidKanji(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kanji = map[string]string{"ab": "c"}

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNew_CacheFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.CachePath = filepath.Join(blocker, "volumes.db")

	s, err := New(cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Nil(t, s.Cache)
	assert.NotNil(t, s.Resolver)
}

func TestApplyKanji(t *testing.T) {
	s, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ApplyKanji(map[string]string{"國": "国"}))
	assert.Equal(t, "国", s.Kanji.Normalize("國"))
}
