// Package services wires the adapters behind the splitmark front ends
package services

import (
	"fmt"

	"go.uber.org/zap"

	"splitmark/internal/adapters/clipboard"
	"splitmark/internal/adapters/editor"
	"splitmark/internal/adapters/filesystem"
	"splitmark/internal/adapters/httpsource"
	"splitmark/internal/adapters/sqlite"
	"splitmark/internal/adapters/viewer"
	"splitmark/internal/application"
	"splitmark/internal/config"
	"splitmark/internal/kanji"
	"splitmark/internal/ports"
)

// Services holds the core collaborators shared by the CLI, TUI and MCP server.
type Services struct {
	Config    *config.Config
	Resolver  *application.Resolver
	Store     *filesystem.Store
	Cache     *sqlite.Cache // nil when the cache could not be opened
	Kanji     *kanji.Table
	Clipboard ports.Clipboard // nil when the host has no clipboard
	Editor    *editor.Opener
	Viewer    *viewer.Opener
	Logger    *zap.Logger
}

// New builds the services for cfg. A cache that fails to open is logged and skipped.
func New(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table := kanji.NewTable()
	if err := table.AddAll(cfg.Kanji); err != nil {
		return nil, fmt.Errorf("invalid kanji table: %w", err)
	}

	s := &Services{
		Config:    cfg,
		Store:     filesystem.NewStore(cfg.OutputDir, cfg.Splitter.MusicMetadata),
		Kanji:     table,
		Clipboard: clipboard.New(),
		Editor:    editor.NewOpener(cfg.Editor),
		Viewer:    viewer.NewOpener(),
		Logger:    logger,
	}

	var cache ports.VolumeCache
	cachePath := cfg.CachePath
	if cachePath == "" {
		cachePath = sqlite.DefaultPath()
	}
	c := sqlite.NewCache()
	if err := c.Open(cachePath); err != nil {
		logger.Warn("volume cache disabled", zap.String("path", cachePath), zap.Error(err))
	} else {
		s.Cache = c
		cache = c
	}

	source := httpsource.New(httpsource.Options{
		Attempts: cfg.Fetch.Attempts,
		Timeout:  cfg.Fetch.Timeout,
		Logger:   logger,
	})
	s.Resolver = application.NewResolver(source, cache, application.ResolverConfig{
		BaseURL:     cfg.BaseURL,
		MaxVolume:   cfg.Probe.MaxVolume,
		Concurrency: cfg.Probe.Concurrency,
		CacheTTL:    cfg.CacheTTL,
	}, logger)
	if cfg.NormalizeLabels {
		s.Resolver.WithLabelNormalizer(table.Normalize)
	}

	return s, nil
}

// ApplyKanji replaces the configured kanji pairs after a config reload.
// The default pairs stay in place.
func (s *Services) ApplyKanji(pairs map[string]string) error {
	return s.Kanji.Reset(pairs)
}

// Close releases the cache
func (s *Services) Close() error {
	if s.Cache != nil {
		return s.Cache.Close()
	}
	return nil
}
