package ports

import (
	"context"

	"splitmark/internal/domain"
)

// ManifestSource defines the interface for retrieving remote collection documents
type ManifestSource interface {
	// FetchManifest retrieves and decodes one IIIF manifest
	FetchManifest(ctx context.Context, url string) (*domain.Manifest, error)

	// FetchIndex retrieves and decodes a collection's manifest-index.json
	FetchIndex(ctx context.Context, url string) (*domain.VolumeIndex, error)

	// Probe checks that a document exists without downloading it.
	// Returns nil when present; any error means absent or unreachable.
	Probe(ctx context.Context, url string) error
}
