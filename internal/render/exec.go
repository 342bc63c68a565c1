package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// runTool invokes an external program with an explicit argument vector, the
// workspace as working directory, and captured combined output. No shell is
// involved anywhere, so there is nothing to quote and nothing to inject.
func runTool(ctx context.Context, ws *workspace, tool string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = ws.dir
	out, err := cmd.CombinedOutput()
	diag := strings.TrimSpace(string(out))
	if err != nil {
		if isToolMissing(err) {
			return diag, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
		}
		return diag, err
	}
	return diag, nil
}

// isToolMissing reports whether err means the program itself is absent, as
// opposed to a non-zero exit. Covers both PATH lookup failures and explicit
// paths that do not exist.
func isToolMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// stageErr wraps a stage sentinel with the tool's diagnostic output so the
// failure log carries the actual stderr of the external program.
func stageErr(kind error, diag string, err error) error {
	if errors.Is(err, ErrToolNotFound) {
		return err
	}
	if diag != "" {
		return fmt.Errorf("%w: %v: %s", kind, err, diag)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
