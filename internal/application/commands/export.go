package commands

import (
	"context"
	"fmt"
	"time"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// ExportSidecarResult contains the exported sidecar and where it was written
type ExportSidecarResult struct {
	Sidecar domain.TitlePagesSidecar
	Path    string
	Message string
}

// ExportSidecarCommand writes the title pages sidecar for a manifest
type ExportSidecarCommand struct {
	store        ports.ArtifactStore
	ManifestPath string
	PageCount    int
	Marks        domain.Marks
	Now          time.Time
}

// NewExportSidecarCommand creates a new ExportSidecarCommand stamped with the current time.
// pageCount is the page count of the loaded manifest the marks refer to.
func NewExportSidecarCommand(store ports.ArtifactStore, manifestPath string, pageCount int, marks domain.Marks) *ExportSidecarCommand {
	return &ExportSidecarCommand{
		store:        store,
		ManifestPath: manifestPath,
		PageCount:    pageCount,
		Marks:        marks,
		Now:          time.Now(),
	}
}

// Validate checks if the export operation is valid
func (c *ExportSidecarCommand) Validate() error {
	if err := application.ValidateRequired("manifestPath", c.ManifestPath); err != nil {
		return err
	}
	if err := application.ValidateHasMarks(c.Marks); err != nil {
		return err
	}
	return application.ValidateMarksInRange(c.Marks, c.PageCount)
}

// Execute runs the export command
func (c *ExportSidecarCommand) Execute(ctx context.Context) (*ExportSidecarResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sidecar := domain.ExportSidecar(c.Marks.Snapshot(), c.ManifestPath, c.Now)
	path, err := c.store.WriteSidecar(sidecar)
	if err != nil {
		return nil, fmt.Errorf("failed to write sidecar: %w", err)
	}

	return &ExportSidecarResult{
		Sidecar: sidecar,
		Path:    path,
		Message: fmt.Sprintf("Exported %d title pages to %s", len(sidecar.TitlePages), path),
	}, nil
}
