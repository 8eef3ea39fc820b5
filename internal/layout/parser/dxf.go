package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"keycap-layout/internal/layout/models"

	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
)

// ============================================================
// DXF decoder
// ============================================================

// DecodeDXF читает DXF и возвращает плоский список сущностей в порядке файла.
// Ошибка разбора прерывает импорт целиком.
func DecodeDXF(r io.Reader) ([]models.Entity, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, fmt.Errorf("decode dxf: %w", err)
	}

	var out []models.Entity
	for _, entity := range doc.Entities.Entities {
		if e, ok := convertEntity(entity); ok {
			out = append(out, e)
		}
	}

	return out, nil
}

// convertEntity переводит сущность dxf-go в models.Entity.
// Неподдерживаемые типы пропускаются.
func convertEntity(entity any) (models.Entity, bool) {
	switch e := entity.(type) {
	case *entities.Line:
		start := fromCore(e.Start)
		end := fromCore(e.End)
		return models.Entity{
			Type:  models.EntityLine,
			Start: &start,
			End:   &end,
		}, true

	case *entities.Polyline:
		vertices := make([]models.RawPoint, 0, len(e.Vertices))
		for _, v := range e.Vertices {
			vertices = append(vertices, fromCore(v.Location))
		}
		return models.Entity{
			Type:     "POLYLINE",
			Vertices: vertices,
		}, true
	}

	return models.Entity{}, false
}

func fromCore(p core.Point) models.RawPoint {
	return models.Raw(p.X, p.Y)
}

// ============================================================
// JSON entity list
// ============================================================

type entityList struct {
	Entities []models.Entity `json:"entities"`
}

// DecodeEntitiesJSON принимает список сущностей, уже разобранный на клиенте:
// либо массив, либо объект {"entities": [...]}.
func DecodeEntitiesJSON(r io.Reader) ([]models.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read entities: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty entity list")
	}

	var list []models.Entity
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode entities: %w", err)
		}
	} else {
		var wrapped entityList
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode entities: %w", err)
		}
		list = wrapped.Entities
	}

	for i := range list {
		list[i].Type = strings.ToUpper(strings.TrimSpace(list[i].Type))
	}

	return list, nil
}
