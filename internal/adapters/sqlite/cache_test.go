package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitmark/internal/application"
	"splitmark/internal/domain"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c := NewCache()
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "volumes.db")))
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleVolumes() []domain.VolumeEntry {
	return []domain.VolumeEntry{
		{Filename: "volume2_manifest.json", VolumeNumber: 2, Label: "平調"},
		{Filename: "volume0_manifest.json", VolumeNumber: 0, Label: "目録"},
		{Filename: "volume1_manifest.json", VolumeNumber: 1, Label: "壱越調"},
	}
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "gagaku", sampleVolumes()))

	got, ok, err := c.Get(ctx, "gagaku", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.VolumeEntry{
		{Filename: "volume0_manifest.json", VolumeNumber: 0, Label: "目録"},
		{Filename: "volume1_manifest.json", VolumeNumber: 1, Label: "壱越調"},
		{Filename: "volume2_manifest.json", VolumeNumber: 2, Label: "平調"},
	}, got)
}

func TestCache_Miss(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get(context.Background(), "unknown", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Stale(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	written := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return written }
	require.NoError(t, c.Put(ctx, "gagaku", sampleVolumes()))

	c.now = func() time.Time { return written.Add(2 * time.Hour) }
	_, ok, err := c.Get(ctx, "gagaku", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "entry older than maxAge should miss")

	_, ok, err = c.Get(ctx, "gagaku", 3*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_PutReplaces(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "gagaku", sampleVolumes()))
	require.NoError(t, c.Put(ctx, "gagaku", []domain.VolumeEntry{
		{Filename: "volume5_manifest.json", VolumeNumber: 5, Label: "x"},
	}))

	got, ok, err := c.Get(ctx, "gagaku", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)
	assert.Equal(t, 5, got[0].VolumeNumber)
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a", sampleVolumes()))
	require.NoError(t, c.Put(ctx, "b", sampleVolumes()))

	require.NoError(t, c.Clear(ctx, "a"))
	names, err := c.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	require.NoError(t, c.Clear(ctx, ""))
	names, err = c.Collections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCache_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "volumes.db")
	ctx := context.Background()

	c := NewCache()
	require.NoError(t, c.Open(path))
	require.NoError(t, c.Put(ctx, "gagaku", sampleVolumes()))
	require.NoError(t, c.Close())

	c = NewCache()
	require.NoError(t, c.Open(path))
	defer c.Close()
	got, ok, err := c.Get(ctx, "gagaku", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 3)
}

// indexSource serves one collection index and nothing else
type indexSource struct {
	index *domain.VolumeIndex
}

func (s *indexSource) FetchManifest(_ context.Context, url string) (*domain.Manifest, error) {
	return nil, &application.FetchError{URL: url, Status: 404}
}

func (s *indexSource) FetchIndex(_ context.Context, url string) (*domain.VolumeIndex, error) {
	if s.index == nil {
		return nil, &application.FetchError{URL: url, Status: 503}
	}
	return s.index, nil
}

func (s *indexSource) Probe(_ context.Context, url string) error {
	return &application.FetchError{URL: url, Status: 404}
}

func TestCache_NewSessionSeesChangedIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.db")
	ctx := context.Background()
	base := "http://manuscripts.test/"
	src := &indexSource{index: &domain.VolumeIndex{Manifests: []domain.VolumeIndexEntry{
		{ID: base + "gagaku/volume0_manifest.json", Label: "目録"},
	}}}
	cfg := application.ResolverConfig{BaseURL: base, MaxVolume: 1}

	session := func() ([]domain.VolumeEntry, application.VolumeSource, error) {
		c := NewCache()
		require.NoError(t, c.Open(path))
		defer c.Close()
		return application.NewResolver(src, c, cfg, nil).Resolve(ctx, "gagaku", false)
	}

	entries, source, err := session()
	require.NoError(t, err)
	assert.Equal(t, application.SourceIndex, source)
	assert.Len(t, entries, 1)

	src.index.Manifests = append(src.index.Manifests,
		domain.VolumeIndexEntry{ID: base + "gagaku/volume1_manifest.json", Label: "壱越調"})

	entries, source, err = session()
	require.NoError(t, err)
	assert.Equal(t, application.SourceIndex, source)
	assert.Len(t, entries, 2)

	// Host down: the listing saved by the last session is served
	src.index = nil
	entries, source, err = session()
	require.NoError(t, err)
	assert.Equal(t, application.SourceCache, source)
	assert.Len(t, entries, 2)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, "/data/splitmark/volumes.db", DefaultPath())
}
