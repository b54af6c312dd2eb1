package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// SplitManifestRef splits "<collection>/<volume>" at the last slash
func SplitManifestRef(ref string) (collection, volume string, err error) {
	i := strings.LastIndex(ref, "/")
	if i <= 0 || i == len(ref)-1 {
		return "", "", &application.ValidationError{
			Field:   "manifestPath",
			Message: fmt.Sprintf("expected <collection>/<volume>, got: %s", ref),
		}
	}
	return ref[:i], ref[i+1:], nil
}

// LoadManifestResult contains a loaded manifest and its pages
type LoadManifestResult struct {
	Path    string // "<collection>/<volume>" or the local file's base name
	Label   string
	Pages   []domain.PageDescriptor
	Message string
}

// LoadManifestCommand loads a manifest from a collection or from a local file.
// File takes precedence when set.
type LoadManifestCommand struct {
	resolver   *application.Resolver
	store      ports.ArtifactStore
	Collection string
	Volume     string
	File       string
}

// NewLoadManifestCommand creates a command that loads a remote volume
func NewLoadManifestCommand(resolver *application.Resolver, collection, volume string) *LoadManifestCommand {
	return &LoadManifestCommand{
		resolver:   resolver,
		Collection: collection,
		Volume:     volume,
	}
}

// NewLoadLocalManifestCommand creates a command that loads a manifest file from disk
func NewLoadLocalManifestCommand(store ports.ArtifactStore, file string) *LoadManifestCommand {
	return &LoadManifestCommand{
		store: store,
		File:  file,
	}
}

// Validate checks if the load operation is valid
func (c *LoadManifestCommand) Validate() error {
	if c.File != "" {
		return nil
	}
	if err := application.ValidateRequired("collection", c.Collection); err != nil {
		return err
	}
	return application.ValidateRequired("volume", c.Volume)
}

// Execute runs the load manifest command
func (c *LoadManifestCommand) Execute(ctx context.Context) (*LoadManifestResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		m    *domain.Manifest
		path string
		err  error
	)
	if c.File != "" {
		m, err = c.store.ReadManifest(c.File)
		path = filepath.Base(c.File)
	} else {
		m, err = c.resolver.LoadManifest(ctx, c.Collection, c.Volume)
		path = c.Collection + "/" + c.Volume
	}
	if err != nil {
		return nil, err
	}

	pages := m.Pages()
	return &LoadManifestResult{
		Path:    path,
		Label:   m.Label,
		Pages:   pages,
		Message: fmt.Sprintf("Loaded %s: %d pages", path, len(pages)),
	}, nil
}
