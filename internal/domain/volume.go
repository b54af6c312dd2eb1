package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// MaxProbedVolume is the highest volume number tried during discovery
const MaxProbedVolume = 100

// IndexFilename is the per-collection volume index document
const IndexFilename = "manifest-index.json"

var volumeFileRegex = regexp.MustCompile(`volume(\d+)_manifest\.json`)

// VolumeEntry is one selectable volume of a collection
type VolumeEntry struct {
	Filename     string `json:"filename" yaml:"filename"`
	VolumeNumber int    `json:"volume_number" yaml:"volume_number"`
	Label        string `json:"label" yaml:"label"`
}

// DisplayName formats the entry as "巻NN: label"
func (v VolumeEntry) DisplayName() string {
	return fmt.Sprintf("巻%02d: %s", v.VolumeNumber, v.Label)
}

// VolumeIndex is the precomputed manifest-index.json document
type VolumeIndex struct {
	Manifests []VolumeIndexEntry `json:"manifests"`
}

// VolumeIndexEntry references one manifest of the collection
type VolumeIndexEntry struct {
	ID    string `json:"@id"`
	Label string `json:"label"`
}

// VolumeFilename returns the conventional manifest filename for a volume number
func VolumeFilename(n int) string {
	return fmt.Sprintf("volume%d_manifest.json", n)
}

// ParseVolumeNumber extracts N from "volumeN_manifest.json"
func ParseVolumeNumber(filename string) (int, bool) {
	matches := volumeFileRegex.FindStringSubmatch(filename)
	if matches == nil {
		return 0, false
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Entries converts the index into volume entries sorted by volume number.
// Entries whose filename does not follow the volume pattern use their position.
func (idx VolumeIndex) Entries() []VolumeEntry {
	entries := make([]VolumeEntry, 0, len(idx.Manifests))
	for i, m := range idx.Manifests {
		filename := m.ID[strings.LastIndex(m.ID, "/")+1:]
		number, ok := ParseVolumeNumber(filename)
		if !ok {
			number = i
		}
		entries = append(entries, VolumeEntry{
			Filename:     filename,
			VolumeNumber: number,
			Label:        m.Label,
		})
	}
	SortVolumes(entries)
	return entries
}

// SortVolumes sorts entries by volume number in ascending order
func SortVolumes(entries []VolumeEntry) {
	slices.SortStableFunc(entries, func(a, b VolumeEntry) int {
		return a.VolumeNumber - b.VolumeNumber
	})
}
