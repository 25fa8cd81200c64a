package sandbox

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// ScriptName is the staged source filename inside the workspace, mounted
// read-only at MountPath/ScriptName inside the sandbox.
const ScriptName = "script.py"

// MountPath is the fixed in-sandbox path the workspace is mounted at.
const MountPath = "/app"

// Workspace is the transient, single-use staging area for one submission.
// It holds exactly one script artifact and is owned by the Run invocation
// that acquired it; Release must be called exactly once per Acquire.
type Workspace struct {
	// ID uniquely identifies this execution; it also names the container.
	ID string
	// Root is the host directory holding the staged script.
	Root string
}

// ScriptPath returns the host path of the staged script.
func (w Workspace) ScriptPath() string {
	return filepath.Join(w.Root, ScriptName)
}

// AcquireWorkspace creates a fresh uniquely named staging directory and
// writes the submitted code into it with restrictive permissions. On any
// write failure the partially created directory is removed before the
// error is returned, so a failed acquire never leaks.
func AcquireWorkspace(fs FileSystem, code string) (Workspace, error) {
	id := uuid.NewString()

	root, err := fs.MkdirTemp("", "saferun-"+id[:8]+"-*")
	if err != nil {
		return Workspace{}, fmt.Errorf("workspace: create staging dir: %w", err)
	}

	ws := Workspace{ID: id, Root: root}
	if err := fs.WriteFile(ws.ScriptPath(), []byte(code), FilePermission); err != nil {
		_ = fs.RemoveAll(root)
		return Workspace{}, fmt.Errorf("workspace: write script: %w", err)
	}

	return ws, nil
}

// Release removes the staging directory and all contents.
func (w Workspace) Release(fs FileSystem) error {
	if err := fs.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("workspace: remove staging dir: %w", err)
	}
	return nil
}
