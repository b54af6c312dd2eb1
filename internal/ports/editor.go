package ports

import "os/exec"

// EditorOpener defines the interface for opening exported artifacts in an external editor
type EditorOpener interface {
	// OpenFile opens the file in the configured editor, then $EDITOR, $VISUAL
	// or the first common editor found on PATH
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor,
	// for bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
