package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// DefaultMusicMetadataFile is the metadata file name passed to the splitter's -m flag
const DefaultMusicMetadataFile = "music_metadata.json"

// Store implements ports.ArtifactStore using the filesystem
type Store struct {
	outputDir         string
	musicMetadataFile string
}

// Ensure Store implements ArtifactStore
var _ ports.ArtifactStore = (*Store)(nil)

// NewStore creates a store that writes artifacts into outputDir
func NewStore(outputDir, musicMetadataFile string) *Store {
	if outputDir == "" {
		outputDir = "."
	}
	// Expand ~ to home directory
	if strings.HasPrefix(outputDir, "~") {
		home, _ := os.UserHomeDir()
		outputDir = filepath.Join(home, outputDir[1:])
	}
	if musicMetadataFile == "" {
		musicMetadataFile = DefaultMusicMetadataFile
	}
	return &Store{outputDir: outputDir, musicMetadataFile: musicMetadataFile}
}

// OutputDir returns the directory artifacts are written to
func (s *Store) OutputDir() string {
	return s.outputDir
}

// ReadManifest reads and decodes a manifest file
func (s *Store) ReadManifest(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return domain.DecodeManifest(data)
}

// ReadSidecar reads a title pages sidecar and validates it
func (s *Store) ReadSidecar(path string) (*domain.TitlePagesSidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}
	return application.ParseSidecar(data)
}

// ReadMusicMetadata reads a music metadata file; a missing file yields no assignments
func (s *Store) ReadMusicMetadata(path string) (domain.Assignments, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return domain.Assignments{}, nil
	}
	if err != nil {
		return domain.Assignments{}, fmt.Errorf("failed to read music metadata: %w", err)
	}
	return domain.DecodeMusicMetadata(data)
}

// SidecarPath returns where the sidecar for a manifest is written
func (s *Store) SidecarPath(manifestPath string) string {
	return filepath.Join(s.outputDir, domain.SidecarFilename(manifestPath))
}

// MusicMetadataPath returns where music metadata is written
func (s *Store) MusicMetadataPath() string {
	return filepath.Join(s.outputDir, s.musicMetadataFile)
}

// WriteSidecar writes the sidecar next to the other artifacts
func (s *Store) WriteSidecar(sidecar domain.TitlePagesSidecar) (string, error) {
	data, err := domain.EncodeSidecar(sidecar)
	if err != nil {
		return "", fmt.Errorf("failed to encode sidecar: %w", err)
	}
	path := s.SidecarPath(sidecar.ManifestFile)
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteMusicMetadata writes every assignment into the music metadata file
func (s *Store) WriteMusicMetadata(assignments domain.Assignments) (string, error) {
	data, err := assignments.MusicMetadataDocument()
	if err != nil {
		return "", fmt.Errorf("failed to encode music metadata: %w", err)
	}
	path := s.MusicMetadataPath()
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile writes through a temp file and rename so readers never see a partial document
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
