package parser

import (
	"keycap-layout/internal/layout/models"
)

// ============================================================
// Segment endpoints
// ============================================================

// ResolveEndpoints приводит отрезок к двум концам.
// Пара start/end имеет приоритет, иначе берутся первые две вершины.
// Координаты здесь не проверяются: битые значения отсекает построитель.
func ResolveEndpoints(e models.Entity) ([2]models.RawPoint, bool) {
	if e.Start != nil && e.End != nil {
		return [2]models.RawPoint{*e.Start, *e.End}, true
	}

	if len(e.Vertices) >= 2 {
		return [2]models.RawPoint{e.Vertices[0], e.Vertices[1]}, true
	}

	return [2]models.RawPoint{}, false
}

// FilterLines оставляет только сущности типа LINE, сохраняя порядок.
func FilterLines(entities []models.Entity) []models.Entity {
	lines := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if e.IsLine() {
			lines = append(lines, e)
		}
	}
	return lines
}
