package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/models"
	"keycap-layout/internal/layout/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Stored layouts
// ============================================================

type layerRequest struct {
	Name string `json:"name"`
}

func (h *LayoutHandler) ListLayouts(c fiber.Ctx) error {
	list, err := h.repo.List(context.Background())
	if err != nil {
		log.Printf("[LAYOUTS] list error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list layouts"})
	}
	return c.JSON(list)
}

// CreateLayout сохраняет раскладку из тела запроса (формат файла раскладки).
func (h *LayoutHandler) CreateLayout(c fiber.Ctx) error {
	layout, err := decodeBody(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	name := c.Query("name", "untitled")
	id, err := h.repo.Create(context.Background(), name, layout)
	if err != nil {
		log.Printf("[LAYOUTS] create error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save layout"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *LayoutHandler) GetLayout(c fiber.Ctx) error {
	layout, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(layout)
}

func (h *LayoutHandler) UpdateLayout(c fiber.Ctx) error {
	layout, err := decodeBody(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Update(context.Background(), c.Params("id"), layout); err != nil {
		return storeError(c, err)
	}
	return c.JSON(layout)
}

func (h *LayoutHandler) DeleteLayout(c fiber.Ctx) error {
	if err := h.repo.Delete(context.Background(), c.Params("id")); err != nil {
		return storeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddLayer добавляет слой всем клавишам раскладки.
func (h *LayoutHandler) AddLayer(c fiber.Ctx) error {
	var req layerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	layout, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}

	if err := layoutfile.AddLayer(layout, req.Name); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.repo.Update(context.Background(), c.Params("id"), layout); err != nil {
		return storeError(c, err)
	}

	return c.JSON(fiber.Map{"layers": layout.Layers})
}

// PatchKeyStyle меняет надпись/цвета клавиши на одном слое.
func (h *LayoutHandler) PatchKeyStyle(c fiber.Ctx) error {
	var patch layoutfile.StylePatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	layout, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}

	key, err := layoutfile.PatchStyle(layout, c.Params("keyID"), c.Params("layer"), patch)
	if err != nil {
		if errors.Is(err, layoutfile.ErrKeyNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "key not found"})
		}
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Update(context.Background(), c.Params("id"), layout); err != nil {
		return storeError(c, err)
	}
	return c.JSON(key)
}

// ExportLayout рисует сохранённую раскладку.
func (h *LayoutHandler) ExportLayout(c fiber.Ctx) error {
	layout, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return storeError(c, err)
	}
	return h.sendImage(c, layout)
}

// ============================================================
// Helpers
// ============================================================

func storeError(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "layout not found"})
	}
	if errors.Is(err, layoutfile.ErrUnsupportedVersion) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[LAYOUTS] store error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
}

func decodeBody(c fiber.Ctx) (*models.Layout, error) {
	if len(c.Body()) == 0 {
		return nil, errors.New("body required")
	}
	return layoutfile.Decode(bytes.NewReader(c.Body()))
}
