package application

import "splitmark/internal/domain"

// Re-export page types for use by adapters
type (
	PageDescriptor = domain.PageDescriptor
	SizeClass      = domain.SizeClass
)

// SizeFull is the size the page viewer opens
const SizeFull = domain.SizeFull

// ImageURL builds the retrieval URI for a page at the given size
func ImageURL(p PageDescriptor, size SizeClass) string {
	return domain.ImageURL(p, size)
}

// ParseSizeClass maps a size name to a SizeClass
func ParseSizeClass(name string) (SizeClass, error) {
	return domain.ParseSizeClass(name)
}
