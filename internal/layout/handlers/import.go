package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/mapper"
	"keycap-layout/internal/layout/models"
	"keycap-layout/internal/layout/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Layout Handler
// ============================================================

type LayoutHandler struct {
	repo      *repository.Repository
	converter *mapper.Converter
	renderer  *mapper.Renderer
	now       func() time.Time
}

func NewLayoutHandler(repo *repository.Repository, converter *mapper.Converter, renderer *mapper.Renderer) *LayoutHandler {
	return &LayoutHandler{
		repo:      repo,
		converter: converter,
		renderer:  renderer,
		now:       time.Now,
	}
}

type importResponse struct {
	ID     string             `json:"id,omitempty"`
	Layers []string           `json:"layers"`
	Keys   []models.Key       `json:"keys"`
	Stats  mapper.ImportStats `json:"stats"`
}

// ============================================================
// Import
// ============================================================

// Import принимает DXF (multipart file) или список сущностей в JSON
// и возвращает клавиши в экранных координатах. С параметром name
// результат сохраняется как новая раскладка.
func (h *LayoutHandler) Import(c fiber.Ctx) error {
	log.Printf("[IMPORT] Received request")
	log.Printf("[IMPORT] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[IMPORT] Content-Length: %d", len(c.Body()))

	var (
		result *mapper.ImportResult
		err    error
	)

	contentType := c.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			log.Printf("[IMPORT] FormFile error: %v", ferr)
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "file required in multipart/form-data",
			})
		}

		log.Printf("[IMPORT] File received: %s, size: %d", fileHeader.Filename, fileHeader.Size)

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".dxf" && ext != ".json" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "only dxf or json allowed"})
		}

		f, oerr := fileHeader.Open()
		if oerr != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
		}
		defer f.Close()

		data, rerr := io.ReadAll(f)
		if rerr != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
		}

		if ext == ".dxf" {
			result, err = h.converter.ImportDXF(bytes.NewReader(data))
		} else {
			result, err = h.converter.ImportJSON(bytes.NewReader(data))
		}

	case len(c.Body()) > 0:
		result, err = h.converter.ImportJSON(bytes.NewReader(c.Body()))

	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "dxf file or entity list required"})
	}

	if err != nil {
		log.Printf("[IMPORT] Conversion error: %v", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	layout := layoutfile.New(result.Keys, h.now())
	resp := importResponse{
		Layers: layout.Layers,
		Keys:   layout.Keys,
		Stats:  result.Stats,
	}

	name := c.Query("name")
	if name == "" {
		name = c.FormValue("name")
	}
	if name != "" {
		id, cerr := h.repo.Create(context.Background(), name, layout)
		if cerr != nil {
			log.Printf("[IMPORT] save error: %v", cerr)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save layout"})
		}
		resp.ID = id
		log.Printf("[IMPORT] Saved layout %s (%q)", id, name)
	}

	log.Printf("[IMPORT] Conversion successful: %d keys", len(result.Keys))
	return c.JSON(resp)
}
