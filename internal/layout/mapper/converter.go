package mapper

import (
	"fmt"
	"io"
	"log"

	"keycap-layout/internal/layout/geometry"
	"keycap-layout/internal/layout/models"
	"keycap-layout/internal/layout/parser"
)

// ============================================================
// Converter
// ============================================================

type Converter struct {
	builder *geometry.RectBuilder
	norm    NormalizeOptions
	ids     IDProvider
}

// ImportStats: что было на входе и сколько клавиш получилось.
type ImportStats struct {
	Entities int `json:"entities"`
	Lines    int `json:"lines"`
	geometry.Stats
}

type ImportResult struct {
	Keys  []models.Key `json:"keys"`
	Stats ImportStats  `json:"stats"`
}

func New(opts geometry.Options, norm NormalizeOptions, ids IDProvider) *Converter {
	if ids == nil {
		ids = UUIDProvider{}
	}
	return &Converter{
		builder: geometry.NewRectBuilder(opts),
		norm:    norm,
		ids:     ids,
	}
}

// NewDefault создаёт конвертер с допусками и масштабом по умолчанию.
func NewDefault() *Converter {
	return New(geometry.DefaultOptions(), DefaultNormalizeOptions(), UUIDProvider{})
}

// ImportDXF: DXF → клавиши в экранных координатах.
func (c *Converter) ImportDXF(r io.Reader) (*ImportResult, error) {
	entities, err := parser.DecodeDXF(r)
	if err != nil {
		return nil, err
	}
	return c.Import(entities)
}

// ImportJSON принимает список сущностей, разобранный на клиенте.
func (c *Converter) ImportJSON(r io.Reader) (*ImportResult, error) {
	entities, err := parser.DecodeEntitiesJSON(r)
	if err != nil {
		return nil, err
	}
	return c.Import(entities)
}

// Import собирает клавиши из сущностей чертежа. Пустой результат не ошибка.
func (c *Converter) Import(entities []models.Entity) (*ImportResult, error) {
	lines := parser.FilterLines(entities)

	rects, geoStats := c.builder.Build(lines)
	stats := ImportStats{
		Entities: len(entities),
		Lines:    len(lines),
		Stats:    geoStats,
	}

	log.Printf("[IMPORT] entities=%d lines=%d groups=%d accepted=%d",
		stats.Entities, stats.Lines, stats.Groups, stats.Accepted)

	if len(rects) == 0 {
		return &ImportResult{Keys: []models.Key{}, Stats: stats}, nil
	}

	keys, err := Normalize(AssembleKeys(rects, c.ids), c.norm)
	if err != nil {
		return nil, fmt.Errorf("normalize keys: %w", err)
	}

	return &ImportResult{Keys: keys, Stats: stats}, nil
}
