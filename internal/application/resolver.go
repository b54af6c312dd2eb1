package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// Defaults used when a ResolverConfig field is left zero
const (
	DefaultProbeConcurrency = 5
	DefaultCacheTTL         = 24 * time.Hour
)

// VolumeSource names where a listing came from
type VolumeSource string

const (
	SourceCache     VolumeSource = "cache"
	SourceIndex     VolumeSource = "index"
	SourceDiscovery VolumeSource = "discovery"
)

// ResolverConfig controls URL construction and discovery
type ResolverConfig struct {
	BaseURL     string
	MaxVolume   int
	Concurrency int
	CacheTTL    time.Duration // oldest saved listing served when offline
}

// Resolver turns a collection name into its list of volumes.
// It prefers the collection index and falls back to probing volume filenames.
type Resolver struct {
	source    ports.ManifestSource
	cache     ports.VolumeCache
	cfg       ResolverConfig
	logger    *zap.Logger
	normalize func(string) string
}

// NewResolver creates a Resolver. cache may be nil to disable the offline fallback.
func NewResolver(source ports.ManifestSource, cache ports.VolumeCache, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if cfg.MaxVolume <= 0 {
		cfg.MaxVolume = domain.MaxProbedVolume
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultProbeConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source: source,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// WithLabelNormalizer rewrites every resolved volume label through fn
func (r *Resolver) WithLabelNormalizer(fn func(string) string) *Resolver {
	r.normalize = fn
	return r
}

// ManifestURL joins the base URL, collection and filename
func (r *Resolver) ManifestURL(collection, filename string) (string, error) {
	u, err := url.JoinPath(r.cfg.BaseURL, collection, filename)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", r.cfg.BaseURL, err)
	}
	return u, nil
}

// Resolve returns the volumes of a collection, built fresh from the index or,
// when the index is unavailable, by probing the volume filenames.
// The last good listing is saved to the cache and served only when both fail,
// unless refresh is set.
func (r *Resolver) Resolve(ctx context.Context, collection string, refresh bool) ([]domain.VolumeEntry, VolumeSource, error) {
	if err := ValidateRequired("collection", collection); err != nil {
		return nil, "", err
	}
	log := r.logger.With(zap.String("collection", collection))

	entries, err := r.ListVolumes(ctx, collection)
	src := SourceIndex
	if errors.Is(err, ErrIndexUnavailable) {
		log.Info("volume index unavailable, probing volumes", zap.Error(err))
		entries, err = r.DiscoverVolumes(ctx, collection)
		src = SourceDiscovery
	}
	if err != nil {
		if cached, ok := r.offline(ctx, collection, refresh); ok {
			log.Warn("collection unreachable, using saved listing", zap.Error(err), zap.Int("volumes", len(cached)))
			return cached, SourceCache, nil
		}
		return entries, src, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, collection, entries); err != nil {
			log.Warn("volume cache write failed", zap.Error(err))
		}
	}
	log.Info("volumes resolved", zap.String("source", string(src)), zap.Int("volumes", len(entries)))
	return entries, src, nil
}

// offline returns the saved listing for a collection that could not be resolved live
func (r *Resolver) offline(ctx context.Context, collection string, refresh bool) ([]domain.VolumeEntry, bool) {
	if r.cache == nil || refresh || ctx.Err() != nil {
		return nil, false
	}
	entries, ok, err := r.cache.Get(ctx, collection, r.cfg.CacheTTL)
	if err != nil {
		r.logger.Warn("volume cache read failed", zap.String("collection", collection), zap.Error(err))
		return nil, false
	}
	return entries, ok && len(entries) > 0
}

// ListVolumes reads the collection's manifest-index.json.
// Any fetch or parse failure is reported as ErrIndexUnavailable.
func (r *Resolver) ListVolumes(ctx context.Context, collection string) ([]domain.VolumeEntry, error) {
	indexURL, err := r.ManifestURL(collection, domain.IndexFilename)
	if err != nil {
		return nil, err
	}

	idx, err := r.source.FetchIndex(ctx, indexURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	entries := idx.Entries()
	r.normalizeLabels(entries)
	return entries, nil
}

// DiscoverVolumes probes volume0..volumeN with at most Concurrency requests in flight.
// A failed probe marks that volume absent and never cancels the others.
// When nothing is found the result is an empty slice and ErrNoVolumes.
func (r *Resolver) DiscoverVolumes(ctx context.Context, collection string) ([]domain.VolumeEntry, error) {
	found := make([]*domain.VolumeEntry, r.cfg.MaxVolume+1)

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for n := 0; n <= r.cfg.MaxVolume; n++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if entry, ok := r.probe(ctx, collection, n); ok {
				found[n] = &entry
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]domain.VolumeEntry, 0)
	for _, e := range found {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	if len(entries) == 0 {
		return entries, fmt.Errorf("%w in collection %s", ErrNoVolumes, collection)
	}
	r.normalizeLabels(entries)
	return entries, nil
}

func (r *Resolver) probe(ctx context.Context, collection string, n int) (domain.VolumeEntry, bool) {
	filename := domain.VolumeFilename(n)
	manifestURL, err := r.ManifestURL(collection, filename)
	if err != nil {
		return domain.VolumeEntry{}, false
	}

	if err := r.source.Probe(ctx, manifestURL); err != nil {
		if !IsNotFound(err) {
			r.logger.Debug("probe failed", zap.String("url", manifestURL), zap.Error(err))
		}
		return domain.VolumeEntry{}, false
	}

	entry := domain.VolumeEntry{
		Filename:     filename,
		VolumeNumber: n,
		Label:        fmt.Sprintf("Volume %d", n),
	}
	if m, err := r.source.FetchManifest(ctx, manifestURL); err == nil && m.Label != "" {
		entry.Label = m.Label
	}
	return entry, true
}

func (r *Resolver) normalizeLabels(entries []domain.VolumeEntry) {
	if r.normalize == nil {
		return
	}
	for i := range entries {
		entries[i].Label = r.normalize(entries[i].Label)
	}
}

// LoadManifest fetches one volume's manifest and returns its pages
func (r *Resolver) LoadManifest(ctx context.Context, collection, filename string) (*domain.Manifest, error) {
	if err := ValidateRequired("collection", collection); err != nil {
		return nil, err
	}
	if err := ValidateRequired("volume", filename); err != nil {
		return nil, err
	}
	manifestURL, err := r.ManifestURL(collection, filename)
	if err != nil {
		return nil, err
	}
	m, err := r.source.FetchManifest(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest %s/%s: %w", collection, filename, err)
	}
	return m, nil
}
