package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParse matches any ParseError through errors.Is
var ErrParse = errors.New("parse error")

// SizeClass selects the bounding box used when building an image URL
type SizeClass int

const (
	SizeThumbnail SizeClass = iota // 400x400
	SizeMedium                     // 800x800
	SizeFull                       // unbounded
)

func (s SizeClass) String() string {
	switch s {
	case SizeThumbnail:
		return "thumbnail"
	case SizeMedium:
		return "medium"
	case SizeFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseSizeClass maps a size name to a SizeClass
func ParseSizeClass(name string) (SizeClass, error) {
	switch name {
	case "thumbnail", "":
		return SizeThumbnail, nil
	case "medium":
		return SizeMedium, nil
	case "full":
		return SizeFull, nil
	default:
		return 0, fmt.Errorf("unknown size class: %s (expected thumbnail, medium or full)", name)
	}
}

// PageDescriptor is one canvas of a manifest sequence
type PageDescriptor struct {
	Index      int    // 0-based position in the sequence
	ResourceID string // Direct image URI
	ServiceID  string // IIIF image service endpoint, empty when absent
}

// Manifest mirrors the subset of an IIIF presentation manifest we read
type Manifest struct {
	ID        string     `json:"@id,omitempty"`
	Label     string     `json:"label,omitempty"`
	Sequences []Sequence `json:"sequences"`
}

// Sequence is an ordered list of canvases
type Sequence struct {
	Canvases []Canvas `json:"canvases"`
}

// Canvas is one page entry
type Canvas struct {
	Images []CanvasImage `json:"images"`
}

// CanvasImage wraps the image resource of a canvas
type CanvasImage struct {
	Resource ImageResource `json:"resource"`
}

// ImageResource points at the image and optionally its image service
type ImageResource struct {
	ID      string        `json:"@id"`
	Service *ImageService `json:"service,omitempty"`
}

// ImageService is the IIIF Image API endpoint for a resource
type ImageService struct {
	ID string `json:"@id"`
}

// ParseError reports a document that is not valid JSON
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to parse JSON: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// DecodeManifest decodes raw JSON into a Manifest.
// The label may be a plain string or a language map; non-string labels are dropped.
func DecodeManifest(raw []byte) (*Manifest, error) {
	var doc struct {
		Manifest
		Label json.RawMessage `json:"label,omitempty"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Source: "manifest", Err: err}
	}

	m := doc.Manifest
	if len(doc.Label) > 0 {
		var label string
		if err := json.Unmarshal(doc.Label, &label); err == nil {
			m.Label = label
		}
	}
	return &m, nil
}

// Pages returns one descriptor per canvas of the first sequence.
// A manifest without sequences or canvases has no pages.
func (m *Manifest) Pages() []PageDescriptor {
	if m == nil || len(m.Sequences) == 0 {
		return []PageDescriptor{}
	}

	canvases := m.Sequences[0].Canvases
	pages := make([]PageDescriptor, len(canvases))
	for i, c := range canvases {
		pages[i] = PageDescriptor{Index: i}
		if len(c.Images) == 0 {
			continue
		}
		res := c.Images[0].Resource
		pages[i].ResourceID = res.ID
		if res.Service != nil {
			pages[i].ServiceID = res.Service.ID
		}
	}
	return pages
}

// ParseManifest decodes a manifest and returns its pages
func ParseManifest(raw []byte) ([]PageDescriptor, error) {
	m, err := DecodeManifest(raw)
	if err != nil {
		return nil, err
	}
	return m.Pages(), nil
}

// ImageURL builds the retrieval URI for a page at the given size
func ImageURL(p PageDescriptor, size SizeClass) string {
	if p.ServiceID == "" {
		return p.ResourceID
	}
	switch size {
	case SizeThumbnail:
		return p.ServiceID + "/full/!400,400/0/default.jpg"
	case SizeMedium:
		return p.ServiceID + "/full/!800,800/0/default.jpg"
	case SizeFull:
		return p.ServiceID + "/full/full/0/default.jpg"
	default:
		return p.ResourceID
	}
}
