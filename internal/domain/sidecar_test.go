package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestExportSidecar_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	marks := NewMarks(
		PageMark{Page: 30, Titles: 1},
		PageMark{Page: 2, Titles: 3},
		PageMark{Page: 11, Titles: 1},
	)

	sc := ExportSidecar(marks.Snapshot(), "gagaku/volume2_manifest.json", now)

	want := TitlePagesSidecar{
		ManifestFile: "gagaku/volume2_manifest.json",
		ExportDate:   "2025-03-14T09:26:53.589Z",
		TitlePages: []TitlePage{
			{Page: 2, Titles: 3},
			{Page: 11, Titles: 1},
			{Page: 30, Titles: 1},
		},
	}
	if diff := cmp.Diff(want, sc); diff != "" {
		t.Fatalf("ExportSidecar mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(marks.Snapshot(), sc.Marks().Snapshot()); diff != "" {
		t.Errorf("sidecar marks do not round-trip (-want +got):\n%s", diff)
	}
}

func TestExportSidecar_Deterministic(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("JST", 9*3600))
	marks := NewMarks(PageMark{Page: 4, Titles: 2}, PageMark{Page: 1, Titles: 1})

	a, err := EncodeSidecar(ExportSidecar(marks.Snapshot(), "a.json", now))
	if err != nil {
		t.Fatalf("EncodeSidecar failed: %v", err)
	}
	b, err := EncodeSidecar(ExportSidecar(marks.Snapshot(), "a.json", now))
	if err != nil {
		t.Fatalf("EncodeSidecar failed: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("encoding is not deterministic:\n%s\n%s", a, b)
	}

	want := `{
  "manifest_file": "a.json",
  "export_date": "2023-12-31T15:00:00.000Z",
  "title_pages": [
    {
      "page": 1,
      "titles": 1
    },
    {
      "page": 4,
      "titles": 2
    }
  ]
}
`
	if string(a) != want {
		t.Errorf("unexpected encoding:\n%s", a)
	}
}

func TestExportSidecar_EmptyTitlePagesIsArray(t *testing.T) {
	data, err := EncodeSidecar(ExportSidecar(nil, "x.json", time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("EncodeSidecar failed: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if string(raw["title_pages"]) != "[]" {
		t.Errorf("title_pages = %s, expected []", raw["title_pages"])
	}
}

func TestSidecarFilename(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"gagaku/volume2_manifest.json", "gagaku_volume2_manifest_title_pages.json"},
		{"volume0_manifest.json", "volume0_manifest_title_pages.json"},
		{"a/b/c.json", "a_b_c_title_pages.json"},
		{`local\dir\manifest.json`, "local_dir_manifest_title_pages.json"},
		{"noext", "noext_title_pages.json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := SidecarFilename(tt.path); got != tt.expected {
				t.Errorf("SidecarFilename(%q) = %q, expected %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestDeriveSplits(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		marks     []PageMark
		expected  []SplitInfo
	}{
		{
			name:      "single mark after leading content",
			pageCount: 5,
			marks:     []PageMark{{Page: 1, Titles: 1}},
			expected: []SplitInfo{
				{Start: 0, End: 0, Type: SplitContent},
				{Start: 1, End: 4, Type: SplitTitle, Titles: 1},
			},
		},
		{
			name:      "no marks",
			pageCount: 3,
			expected:  []SplitInfo{{Start: 0, End: 2, Type: SplitContent}},
		},
		{
			name:      "mark on first page",
			pageCount: 4,
			marks:     []PageMark{{Page: 0, Titles: 1}, {Page: 2, Titles: 1}},
			expected: []SplitInfo{
				{Start: 0, End: 1, Type: SplitTitle, Titles: 1},
				{Start: 2, End: 3, Type: SplitTitle, Titles: 1},
			},
		},
		{
			name:      "adjacent marks and multi-title page",
			pageCount: 6,
			marks:     []PageMark{{Page: 2, Titles: 3}, {Page: 3, Titles: 1}, {Page: 5, Titles: 2}},
			expected: []SplitInfo{
				{Start: 0, End: 1, Type: SplitContent},
				{Start: 2, End: 2, Type: SplitTitle, Titles: 3},
				{Start: 3, End: 4, Type: SplitTitle, Titles: 1},
				{Start: 5, End: 5, Type: SplitTitle, Titles: 2},
			},
		},
		{
			name:      "marks past the last page are ignored",
			pageCount: 3,
			marks:     []PageMark{{Page: 1, Titles: 1}, {Page: 9, Titles: 1}},
			expected: []SplitInfo{
				{Start: 0, End: 0, Type: SplitContent},
				{Start: 1, End: 2, Type: SplitTitle, Titles: 1},
			},
		},
		{
			name:      "empty manifest",
			pageCount: 0,
			marks:     []PageMark{{Page: 0, Titles: 1}},
			expected:  []SplitInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSplits(tt.pageCount, tt.marks)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("DeriveSplits mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveSplits_Coverage(t *testing.T) {
	markSets := [][]int{
		{},
		{0},
		{19},
		{0, 1, 2, 3},
		{5, 6, 13},
		{3, 8, 9, 15, 19},
		{1, 25, 30},
	}

	const pageCount = 20
	for _, pages := range markSets {
		m := NewMarks()
		for _, p := range pages {
			m = m.Toggle(p)
		}

		splits := DeriveSplits(pageCount, m.Snapshot())
		next := 0
		for _, s := range splits {
			if s.Start != next {
				t.Fatalf("marks %v: split %+v starts at %d, expected %d", pages, s, s.Start, next)
			}
			if s.End < s.Start {
				t.Fatalf("marks %v: split %+v is empty", pages, s)
			}
			next = s.End + 1
		}
		if next != pageCount {
			t.Errorf("marks %v: splits cover [0,%d), expected [0,%d)", pages, next, pageCount)
		}
	}
}

func TestSplitInfo_PageRange(t *testing.T) {
	if got := (SplitInfo{Start: 3, End: 3}).PageRange(); got != "ページ 4" {
		t.Errorf("single page range = %q", got)
	}
	if got := (SplitInfo{Start: 0, End: 4}).PageRange(); got != "ページ 1-5" {
		t.Errorf("multi page range = %q", got)
	}
}

func TestSplitterCommand(t *testing.T) {
	cmd := SplitterCommand(DefaultSplitterOptions(), "gagaku/volume2_manifest.json", "gagaku_volume2_manifest_title_pages.json")
	want := `python3 iiif_manifest_splitter.py "gagaku/volume2_manifest.json" "gagaku_volume2_manifest_title_pages.json" -g gagaku_titles_metadata.json -m music_metadata.json`
	if cmd != want {
		t.Errorf("SplitterCommand =\n%s\nexpected\n%s", cmd, want)
	}

	bare := SplitterCommand(SplitterOptions{Program: "split"}, "m.json", "s.json")
	if strings.Contains(bare, "-g") || strings.Contains(bare, "-m") {
		t.Errorf("optional flags rendered without values: %s", bare)
	}
}
