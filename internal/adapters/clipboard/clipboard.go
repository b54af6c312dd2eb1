package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"splitmark/internal/ports"
)

// System implements ports.Clipboard with the host clipboard
type System struct{}

// Ensure System implements Clipboard
var _ ports.Clipboard = System{}

// New returns the host clipboard, or nil when no clipboard utility is available
func New() ports.Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return System{}
}

// Copy writes text to the clipboard
func (System) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
