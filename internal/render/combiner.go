package render

import (
	"context"
	"path/filepath"

	"underlog/internal/infra/logging"
)

// Fixed ghostscript rendering parameters: 150 dpi output, PDF 1.5
// compatibility, default quality, compressed fonts, duplicate images merged.
var combineArgs = []string{
	"-sDEVICE=pdfwrite",
	"-dCompatibilityLevel=1.5",
	"-dPDFSETTINGS=/default",
	"-dNOPAUSE",
	"-dQUIET",
	"-dBATCH",
	"-dDetectDuplicateImages",
	"-dCompressFonts=true",
	"-r150",
	"-sOutputFile=" + outputFileName,
}

// combinePages merges the page PDFs into the single output artifact. The
// merge order is the numeric page order from listPages; ghostscript
// concatenates its inputs in argument order, so the argument list is the
// ordering contract.
func combinePages(ctx context.Context, ws *workspace, tool string) error {
	pages, err := listPages(ws, ".pdf")
	if err != nil {
		return stageErr(ErrCombineFailed, "", err)
	}

	args := make([]string, 0, len(combineArgs)+len(pages))
	args = append(args, combineArgs...)
	for _, page := range pages {
		args = append(args, filepath.Base(page))
	}

	diag, err := runTool(ctx, ws, tool, args...)
	if err != nil {
		logging.Error("PDF combine failed", "tool", tool, "pages", len(pages), "output", diag, "error", err)
		return stageErr(ErrCombineFailed, diag, err)
	}
	return nil
}
