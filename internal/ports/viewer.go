package ports

import "splitmark/internal/domain"

// PageViewer defines the interface for showing a page image outside the terminal
type PageViewer interface {
	// Open shows the page at the given size with the system URL handler
	Open(page domain.PageDescriptor, size domain.SizeClass) error
}
