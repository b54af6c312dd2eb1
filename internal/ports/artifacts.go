package ports

import "splitmark/internal/domain"

// ArtifactStore defines local file access for manifests and export artifacts
type ArtifactStore interface {
	// Read operations
	ReadManifest(path string) (*domain.Manifest, error)
	ReadSidecar(path string) (*domain.TitlePagesSidecar, error)
	ReadMusicMetadata(path string) (domain.Assignments, error)

	// Write operations return the path written
	WriteSidecar(sidecar domain.TitlePagesSidecar) (string, error)
	WriteMusicMetadata(assignments domain.Assignments) (string, error)

	// Path resolution
	SidecarPath(manifestPath string) string
	MusicMetadataPath() string
}
