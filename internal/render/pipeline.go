package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"underlog/internal/config"
	"underlog/internal/infra/logging"
)

// Pipeline renders a multi-page SVG document into one merged PDF by shelling
// out to an external per-page rasterizer and ghostscript. Each request gets
// its own disposable workspace; concurrent renders never share state, so the
// pipeline itself needs no locking.
type Pipeline struct {
	svg2pdf string
	gs      string
	workDir string
	timeout time.Duration
}

// New builds a Pipeline from configuration.
func New(cfg config.Config) *Pipeline {
	return &Pipeline{
		svg2pdf: cfg.Render.SVG2PDFPath,
		gs:      cfg.Render.GhostscriptPath,
		workDir: cfg.Render.WorkDir,
		timeout: time.Duration(cfg.Render.TimeoutSecs) * time.Second,
	}
}

// Render runs Split, Convert and Combine in order, verifies the output
// artifact, and returns its bytes. Every failure maps to exactly one of the
// stage sentinels in errors.go. The workspace is torn down on all exit
// paths, success and failure alike. No stage is retried.
func (p *Pipeline) Render(ctx context.Context, svg string) ([]byte, error) {
	if svg == "" {
		return nil, ErrInvalidInput
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ws, err := acquireWorkspace(p.workDir)
	if err != nil {
		logging.Error("Workspace creation failed", "base", p.workDir, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrWorkspaceUnavailable, err)
	}
	defer ws.release()

	pages, err := splitPages(ws, svg)
	if err != nil {
		logging.Error("SVG split failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSplitFailed, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: no pages produced", ErrSplitFailed)
	}

	if err := convertPages(ctx, ws, p.svg2pdf); err != nil {
		return nil, err
	}

	if err := combinePages(ctx, ws, p.gs); err != nil {
		return nil, err
	}

	out := ws.path(outputFileName)
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		logging.Error("Merged PDF absent or empty after combine", "path", out)
		return nil, ErrOutputMissing
	}

	pdf, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}

	logging.Info("PDF rendered", "pages", pages, "bytes", len(pdf))
	return pdf, nil
}
