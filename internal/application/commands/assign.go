package commands

import (
	"context"
	"fmt"
	"slices"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// AssignMetadataResult contains the updated assignments and the metadata file path
type AssignMetadataResult struct {
	Assignments domain.Assignments
	Path        string
	Message     string
}

// AssignMetadataCommand attaches music metadata to one split and writes the metadata file
type AssignMetadataCommand struct {
	store      ports.ArtifactStore
	Existing   domain.Assignments
	SplitCount int
	Split      int
	Record     domain.MusicAssignment
}

// NewAssignMetadataCommand creates a new AssignMetadataCommand
func NewAssignMetadataCommand(store ports.ArtifactStore, existing domain.Assignments, splitCount, split int, rec domain.MusicAssignment) *AssignMetadataCommand {
	return &AssignMetadataCommand{
		store:      store,
		Existing:   existing,
		SplitCount: splitCount,
		Split:      split,
		Record:     rec,
	}
}

// Validate checks if the assignment is valid
func (c *AssignMetadataCommand) Validate() error {
	if err := application.ValidateSplitIndex(c.Split, c.SplitCount); err != nil {
		return err
	}
	if c.Record.Category != "" && !slices.Contains(domain.Categories, c.Record.Category) {
		return &application.ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown category: %s", c.Record.Category),
		}
	}
	return nil
}

// Execute runs the assign command
func (c *AssignMetadataCommand) Execute(ctx context.Context) (*AssignMetadataResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	next := c.Existing.Truncate(c.SplitCount).Set(c.Split, c.Record)
	path, err := c.store.WriteMusicMetadata(next)
	if err != nil {
		return nil, fmt.Errorf("failed to write music metadata: %w", err)
	}

	msg := fmt.Sprintf("Assigned metadata to split %d", c.Split)
	if c.Record.IsEmpty() {
		msg = fmt.Sprintf("Cleared metadata for split %d", c.Split)
	}
	return &AssignMetadataResult{
		Assignments: next,
		Path:        path,
		Message:     msg,
	}, nil
}
