package commands

import (
	"context"
	"errors"
	"fmt"

	"splitmark/internal/application"
	"splitmark/internal/domain"
)

// ListVolumesResult contains the volumes of a collection
type ListVolumesResult struct {
	Collection string
	Volumes    []domain.VolumeEntry
	Source     application.VolumeSource
	Message    string
}

// ListVolumesCommand lists all volumes in a collection
type ListVolumesCommand struct {
	resolver   *application.Resolver
	Collection string
	Refresh    bool
}

// NewListVolumesCommand creates a new ListVolumesCommand
func NewListVolumesCommand(resolver *application.Resolver, collection string, refresh bool) *ListVolumesCommand {
	return &ListVolumesCommand{
		resolver:   resolver,
		Collection: collection,
		Refresh:    refresh,
	}
}

// Validate checks if the list operation is valid
func (c *ListVolumesCommand) Validate() error {
	return application.ValidateRequired("collection", c.Collection)
}

// Execute runs the list volumes command.
// A collection with no volumes is not an error; the result carries an explanatory message.
func (c *ListVolumesCommand) Execute(ctx context.Context) (*ListVolumesResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	volumes, source, err := c.resolver.Resolve(ctx, c.Collection, c.Refresh)
	if errors.Is(err, application.ErrNoVolumes) {
		return &ListVolumesResult{
			Collection: c.Collection,
			Volumes:    []domain.VolumeEntry{},
			Source:     source,
			Message:    fmt.Sprintf("No volumes found in %s", c.Collection),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	return &ListVolumesResult{
		Collection: c.Collection,
		Volumes:    volumes,
		Source:     source,
		Message:    fmt.Sprintf("Found %d volumes in %s (%s)", len(volumes), c.Collection, source),
	}, nil
}
