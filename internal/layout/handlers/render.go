package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/mapper"
	"keycap-layout/internal/layout/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

// Render рисует переданную раскладку в PNG или SVG.
func (h *LayoutHandler) Render(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "body required",
		})
	}

	layout, err := layoutfile.Decode(bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return h.sendImage(c, layout)
}

// sendImage отдаёт изображение в формате из ?format= (png по умолчанию).
func (h *LayoutHandler) sendImage(c fiber.Ctx, layout *models.Layout) error {
	layer := c.Query("layer", models.BaseLayer)

	switch c.Query("format", "png") {
	case "svg":
		svg, err := h.renderer.RenderSVG(layout, layer)
		if err != nil {
			return renderError(c, err)
		}
		c.Set("Content-Type", "image/svg+xml")
		return c.SendString(svg)

	case "png":
		var buf bytes.Buffer
		if err := h.renderer.RenderPNG(&buf, layout, layer); err != nil {
			return renderError(c, err)
		}
		c.Set("Content-Type", "image/png")
		return c.Send(buf.Bytes())

	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "format must be png or svg"})
	}
}

func renderError(c fiber.Ctx, err error) error {
	if errors.Is(err, mapper.ErrEmptyLayout) || errors.Is(err, mapper.ErrCanvasTooLarge) {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[RENDER] Render error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
