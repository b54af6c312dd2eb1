package domain

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// SidecarSuffix is appended to the flattened manifest name
const SidecarSuffix = "_title_pages.json"

// ExportDateLayout matches an ISO-8601 UTC timestamp with milliseconds
const ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// TitlePage is one entry of the sidecar's title_pages list
type TitlePage struct {
	Page   int `json:"page" yaml:"page"`
	Titles int `json:"titles" yaml:"titles"`
}

// TitlePagesSidecar is the export artifact handed to the splitter
type TitlePagesSidecar struct {
	ManifestFile string      `json:"manifest_file" yaml:"manifest_file"`
	ExportDate   string      `json:"export_date" yaml:"export_date"`
	TitlePages   []TitlePage `json:"title_pages" yaml:"title_pages"`
}

// ExportSidecar renames a mark snapshot into sidecar form.
// The snapshot is expected in ascending page order, as Marks.Snapshot returns it.
func ExportSidecar(snapshot []PageMark, manifestPath string, now time.Time) TitlePagesSidecar {
	pages := make([]TitlePage, len(snapshot))
	for i, pm := range snapshot {
		pages[i] = TitlePage{Page: pm.Page, Titles: pm.Titles}
	}
	return TitlePagesSidecar{
		ManifestFile: manifestPath,
		ExportDate:   now.UTC().Format(ExportDateLayout),
		TitlePages:   pages,
	}
}

// Marks rebuilds the page marks recorded in the sidecar
func (s TitlePagesSidecar) Marks() Marks {
	marks := make([]PageMark, len(s.TitlePages))
	for i, tp := range s.TitlePages {
		marks[i] = PageMark{Page: tp.Page, Titles: tp.Titles}
	}
	return NewMarks(marks...)
}

// EncodeSidecar renders the sidecar as 2-space indented JSON with a trailing newline
func EncodeSidecar(s TitlePagesSidecar) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// SidecarFilename derives "<manifest base>_title_pages.json" from a manifest path.
// The extension is stripped and path separators become underscores.
func SidecarFilename(manifestPath string) string {
	base := strings.TrimSuffix(manifestPath, path.Ext(manifestPath))
	base = strings.NewReplacer("/", "_", `\`, "_").Replace(base)
	return base + SidecarSuffix
}

// SplitType tags a split as opened by a title page or as untitled content
type SplitType string

const (
	SplitTitle   SplitType = "title"
	SplitContent SplitType = "content"
)

// SplitInfo is a contiguous inclusive page range
type SplitInfo struct {
	Start  int       `json:"start" yaml:"start"`
	End    int       `json:"end" yaml:"end"`
	Type   SplitType `json:"type" yaml:"type"`
	Titles int       `json:"titles,omitempty" yaml:"titles,omitempty"`
}

// PageRange formats the split as 1-based page numbers
func (s SplitInfo) PageRange() string {
	if s.Start == s.End {
		return fmt.Sprintf("ページ %d", s.Start+1)
	}
	return fmt.Sprintf("ページ %d-%d", s.Start+1, s.End+1)
}

// DeriveSplits partitions [0, pageCount-1] at the marked pages.
// Pages before the first mark form a leading content split. Each marked page opens
// a title split that runs to the page before the next mark. A page with several
// titles still opens exactly one split; its count is carried on Titles.
// Marks outside the page range are ignored.
func DeriveSplits(pageCount int, snapshot []PageMark) []SplitInfo {
	if pageCount <= 0 {
		return []SplitInfo{}
	}

	starts := make([]PageMark, 0, len(snapshot))
	for _, pm := range snapshot {
		if pm.Page < 0 || pm.Page >= pageCount || pm.Titles <= 0 {
			continue
		}
		if n := len(starts); n > 0 && starts[n-1].Page >= pm.Page {
			continue
		}
		starts = append(starts, pm)
	}

	if len(starts) == 0 {
		return []SplitInfo{{Start: 0, End: pageCount - 1, Type: SplitContent}}
	}

	splits := make([]SplitInfo, 0, len(starts)+1)
	if starts[0].Page > 0 {
		splits = append(splits, SplitInfo{Start: 0, End: starts[0].Page - 1, Type: SplitContent})
	}
	for i, pm := range starts {
		end := pageCount - 1
		if i+1 < len(starts) {
			end = starts[i+1].Page - 1
		}
		splits = append(splits, SplitInfo{
			Start:  pm.Page,
			End:    end,
			Type:   SplitTitle,
			Titles: pm.Titles,
		})
	}
	return splits
}

// SplitterOptions configures the downstream splitter invocation
type SplitterOptions struct {
	Program        string
	GagakuMetadata string
	MusicMetadata  string
}

// DefaultSplitterOptions matches the splitter shipped alongside the manuscripts
func DefaultSplitterOptions() SplitterOptions {
	return SplitterOptions{
		Program:        "python3 iiif_manifest_splitter.py",
		GagakuMetadata: "gagaku_titles_metadata.json",
		MusicMetadata:  "music_metadata.json",
	}
}

// SplitterCommand builds the command line a curator runs to split the manifest
func SplitterCommand(opts SplitterOptions, manifestPath, sidecarFile string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q %q", opts.Program, manifestPath, sidecarFile)
	if opts.GagakuMetadata != "" {
		fmt.Fprintf(&b, " -g %s", opts.GagakuMetadata)
	}
	if opts.MusicMetadata != "" {
		fmt.Fprintf(&b, " -m %s", opts.MusicMetadata)
	}
	return b.String()
}
