package render

import (
	"os"
	"path/filepath"

	"underlog/internal/infra/logging"
)

const workspacePrefix = "underlog-pdf-"

// workspace is an exclusively owned, request-scoped directory holding every
// intermediate and final artifact of one render. It is never shared between
// requests and never reused.
type workspace struct {
	dir string
}

// acquireWorkspace creates a uniquely named directory under base. An empty
// base falls back to the system temp directory.
func acquireWorkspace(base string) (*workspace, error) {
	dir, err := os.MkdirTemp(base, workspacePrefix+"*")
	if err != nil {
		return nil, err
	}
	logging.Debug("Workspace created", "dir", dir)
	return &workspace{dir: dir}, nil
}

// release removes the workspace and everything in it. Callers must arrange
// for release to run on every exit path. A removal failure is logged, never
// propagated, so it cannot mask the primary error of a failed render.
func (w *workspace) release() {
	if err := os.RemoveAll(w.dir); err != nil {
		logging.Error("Workspace cleanup failed", "dir", w.dir, "error", err)
	}
}

// path joins name onto the workspace directory.
func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}
