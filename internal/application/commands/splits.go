package commands

import (
	"context"
	"fmt"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// DeriveSplitsResult contains the split plan for a manifest
type DeriveSplitsResult struct {
	Splits  []domain.SplitInfo
	Message string
}

// DeriveSplitsCommand previews how the splitter will cut a manifest
type DeriveSplitsCommand struct {
	PageCount int
	Marks     domain.Marks
}

// NewDeriveSplitsCommand creates a new DeriveSplitsCommand
func NewDeriveSplitsCommand(pageCount int, marks domain.Marks) *DeriveSplitsCommand {
	return &DeriveSplitsCommand{
		PageCount: pageCount,
		Marks:     marks,
	}
}

// Validate checks if the derive operation is valid
func (c *DeriveSplitsCommand) Validate() error {
	if c.PageCount < 0 {
		return &application.ValidationError{
			Field:   "pageCount",
			Message: fmt.Sprintf("page count must be zero or positive, got: %d", c.PageCount),
		}
	}
	return application.ValidateMarksInRange(c.Marks, c.PageCount)
}

// Execute runs the derive splits command
func (c *DeriveSplitsCommand) Execute(ctx context.Context) (*DeriveSplitsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	splits := domain.DeriveSplits(c.PageCount, c.Marks.Snapshot())
	return &DeriveSplitsResult{
		Splits:  splits,
		Message: fmt.Sprintf("%d splits from %d title pages over %d pages", len(splits), c.Marks.Len(), c.PageCount),
	}, nil
}

// SplitterCommandResult contains the downstream command line
type SplitterCommandResult struct {
	Command     string
	SidecarFile string
	Copied      bool
	Message     string
}

// SplitterCommandCommand builds the command line that runs the external splitter.
// When a clipboard is supplied the line is also copied.
type SplitterCommandCommand struct {
	clipboard    ports.Clipboard
	Options      domain.SplitterOptions
	ManifestPath string
	PageCount    int
	Marks        domain.Marks
}

// NewSplitterCommandCommand creates a new SplitterCommandCommand; clipboard may be nil
func NewSplitterCommandCommand(clipboard ports.Clipboard, opts domain.SplitterOptions, manifestPath string, pageCount int, marks domain.Marks) *SplitterCommandCommand {
	return &SplitterCommandCommand{
		clipboard:    clipboard,
		Options:      opts,
		ManifestPath: manifestPath,
		PageCount:    pageCount,
		Marks:        marks,
	}
}

// Validate checks if the command can be built
func (c *SplitterCommandCommand) Validate() error {
	if err := application.ValidateRequired("manifestPath", c.ManifestPath); err != nil {
		return err
	}
	if err := application.ValidateHasMarks(c.Marks); err != nil {
		return err
	}
	return application.ValidateMarksInRange(c.Marks, c.PageCount)
}

// Execute builds the command line and copies it when a clipboard is available.
// A clipboard failure is reported in the message, not as an error.
func (c *SplitterCommandCommand) Execute(ctx context.Context) (*SplitterCommandResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sidecarFile := domain.SidecarFilename(c.ManifestPath)
	result := &SplitterCommandResult{
		Command:     domain.SplitterCommand(c.Options, c.ManifestPath, sidecarFile),
		SidecarFile: sidecarFile,
		Message:     "Splitter command ready",
	}

	if c.clipboard != nil {
		if err := c.clipboard.Copy(result.Command); err != nil {
			result.Message = fmt.Sprintf("Splitter command ready (clipboard unavailable: %v)", err)
		} else {
			result.Copied = true
			result.Message = "Splitter command copied to clipboard"
		}
	}
	return result, nil
}
