package render

import (
	"context"
	"path/filepath"
	"strings"

	"underlog/internal/infra/logging"
)

// convertPages runs the external SVG to PDF conversion for every page file in
// the workspace, in ascending page order. It iterates whatever the splitter
// produced rather than an expected count. The first failing page aborts the
// whole stage: a partially converted document is never valid output.
func convertPages(ctx context.Context, ws *workspace, tool string) error {
	pages, err := listPages(ws, ".svg")
	if err != nil {
		return stageErr(ErrConvertFailed, "", err)
	}

	for _, page := range pages {
		in := filepath.Base(page)
		out := strings.TrimSuffix(in, ".svg") + ".pdf"
		diag, err := runTool(ctx, ws, tool, in, out)
		if err != nil {
			logging.Error("Page conversion failed", "page", in, "tool", tool, "output", diag, "error", err)
			return stageErr(ErrConvertFailed, diag, err)
		}
	}
	return nil
}
