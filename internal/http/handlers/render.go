package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"underlog/internal/infra/cache"
	"underlog/internal/infra/logging"
	"underlog/internal/render"
)

const outputFilename = "underlog.pdf"

// Renderer turns one SVG document into one merged PDF.
type Renderer interface {
	Render(ctx context.Context, svg string) ([]byte, error)
}

// RenderHandler serves document rendering. The pipeline is stateless per
// request, so one handler instance serves all requests concurrently.
type RenderHandler struct {
	Pipeline    Renderer
	Cache       *cache.PDFCache
	MaxSVGBytes int
}

type renderRequest struct {
	Input string `json:"input"`
}

// HandlePDF renders the posted SVG source into a merged, paginated PDF.
func (h *RenderHandler) HandlePDF(c *fiber.Ctx) error {
	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON payload, 'input' field required")
	}
	if req.Input == "" {
		return fiber.NewError(fiber.StatusBadRequest, "SVG input is required")
	}
	if h.MaxSVGBytes > 0 && len(req.Input) > h.MaxSVGBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("SVG input exceeds %d bytes", h.MaxSVGBytes))
	}

	key := cache.Key(req.Input)
	if pdf, ok := h.Cache.Get(c.Context(), key); ok {
		return h.sendPDF(c, pdf)
	}

	pdf, err := h.Pipeline.Render(c.Context(), req.Input)
	if err != nil {
		return renderError(c, err)
	}

	h.Cache.Set(c.Context(), key, pdf)

	requestID := c.Get("X-Request-ID")
	logging.Info("PDF generated", "bytes", len(pdf), "request_id", requestID)
	return h.sendPDF(c, pdf)
}

func (h *RenderHandler) sendPDF(c *fiber.Ctx, pdf []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+outputFilename+`"`)
	return c.Send(pdf)
}

// renderError maps each pipeline stage failure to a distinct HTTP status so
// clients can tell a bad document from a broken deployment without parsing
// logs.
func renderError(c *fiber.Ctx, err error) error {
	logging.Error("PDF generation failed", "path", c.Path(), "error", err.Error())

	switch {
	case errors.Is(err, render.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, "SVG input is required")
	case errors.Is(err, render.ErrSplitFailed):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Failed to process SVG (split step)")
	case errors.Is(err, render.ErrConvertFailed):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Failed to process SVG (conversion step)")
	case errors.Is(err, render.ErrCombineFailed):
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to process SVG (combine step)")
	case errors.Is(err, render.ErrOutputMissing):
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to find or generate a valid PDF")
	case errors.Is(err, render.ErrToolNotFound):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Server configuration error: rendering tool not found")
	case errors.Is(err, render.ErrWorkspaceUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Rendering temporarily unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to process request")
	}
}

// HandleODT is a placeholder for ODT export.
func (h *RenderHandler) HandleODT(c *fiber.Ctx) error {
	logging.Info("ODT endpoint called (not implemented)")
	return fiber.NewError(fiber.StatusNotImplemented, "ODT generation not implemented")
}
