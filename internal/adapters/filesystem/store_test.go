package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"splitmark/internal/application"
	"splitmark/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	tmpDir := t.TempDir()
	return NewStore(filepath.Join(tmpDir, "out"), ""), tmpDir
}

func TestWriteSidecar_ReadBack(t *testing.T) {
	store, _ := setupTestStore(t)

	marks := domain.NewMarks(domain.PageMark{Page: 4, Titles: 1}, domain.PageMark{Page: 0, Titles: 2})
	sc := domain.ExportSidecar(marks.Snapshot(), "gagaku/volume1_manifest.json", time.Unix(1700000000, 0))

	path, err := store.WriteSidecar(sc)
	if err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}
	if filepath.Base(path) != "gagaku_volume1_manifest_title_pages.json" {
		t.Errorf("unexpected sidecar name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read sidecar: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("sidecar should end with a newline")
	}
	if !strings.Contains(string(data), "\n  \"manifest_file\"") {
		t.Errorf("sidecar should use 2-space indent:\n%s", data)
	}

	back, err := store.ReadSidecar(path)
	if err != nil {
		t.Fatalf("ReadSidecar failed: %v", err)
	}
	if back.Marks().Count(0) != 2 || back.Marks().Count(4) != 1 {
		t.Errorf("marks did not round-trip: %+v", back.TitlePages)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the sidecar in output dir, found %d entries", len(entries))
	}
}

func TestReadSidecar_Invalid(t *testing.T) {
	store, tmpDir := setupTestStore(t)

	path := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"manifest_file": "a.json"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.ReadSidecar(path)
	if !errors.Is(err, application.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestReadManifest(t *testing.T) {
	store, tmpDir := setupTestStore(t)

	path := filepath.Join(tmpDir, "local_manifest.json")
	content := `{"label": "local", "sequences": [{"canvases": [{"images": []}, {"images": []}]}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := store.ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(m.Pages()) != 2 {
		t.Errorf("expected 2 pages, got %d", len(m.Pages()))
	}

	if _, err := store.ReadManifest(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestMusicMetadata_WriteRead(t *testing.T) {
	store, _ := setupTestStore(t)

	var a domain.Assignments
	a = a.Set(0, domain.MusicAssignment{Title: "迦陵頻", Category: "舞楽"})
	a = a.Set(3, domain.MusicAssignment{Composer: "不詳"})

	path, err := store.WriteMusicMetadata(a)
	if err != nil {
		t.Fatalf("WriteMusicMetadata failed: %v", err)
	}
	if path != store.MusicMetadataPath() {
		t.Errorf("path = %s, expected %s", path, store.MusicMetadataPath())
	}

	back, err := store.ReadMusicMetadata(path)
	if err != nil {
		t.Fatalf("ReadMusicMetadata failed: %v", err)
	}
	if back.Len() != 2 {
		t.Errorf("expected 2 assignments, got %d", back.Len())
	}
	if rec, _ := back.Get(0); rec.Title != "迦陵頻" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestReadMusicMetadata_Missing(t *testing.T) {
	store, tmpDir := setupTestStore(t)
	a, err := store.ReadMusicMetadata(filepath.Join(tmpDir, "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() != 0 {
		t.Errorf("expected no assignments, got %d", a.Len())
	}
}

func TestNewStore_Defaults(t *testing.T) {
	store := NewStore("", "")
	if store.OutputDir() != "." {
		t.Errorf("OutputDir = %q", store.OutputDir())
	}
	if store.MusicMetadataPath() != DefaultMusicMetadataFile {
		t.Errorf("MusicMetadataPath = %q", store.MusicMetadataPath())
	}
}
