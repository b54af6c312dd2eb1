package viewer

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"splitmark/internal/application"
	"splitmark/internal/ports"
)

// Opener implements ports.PageViewer with the platform URL handler
type Opener struct {
	goos string
	run  func(*exec.Cmd) error
}

// Ensure Opener implements PageViewer
var _ ports.PageViewer = (*Opener)(nil)

// NewOpener creates a viewer for the current platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run:  (*exec.Cmd).Start,
	}
}

// Open shows the page image in the default browser
func (o *Opener) Open(page application.PageDescriptor, size application.SizeClass) error {
	uri, err := BuildURL(page, size)
	if err != nil {
		return err
	}
	cmd, err := o.command(uri)
	if err != nil {
		return err
	}
	if err := o.run(cmd); err != nil {
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	return nil
}

// BuildURL returns the absolute image URL for a page
func BuildURL(page application.PageDescriptor, size application.SizeClass) (string, error) {
	raw := application.ImageURL(page, size)
	if raw == "" {
		return "", fmt.Errorf("page %d has no image", page.Index+1)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image URL %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("image URL is not absolute: %s", raw)
	}
	return u.String(), nil
}

func (o *Opener) command(uri string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
