package mapper

import (
	"keycap-layout/internal/layout/models"
)

// ============================================================
// Key assembly
// ============================================================

// AssembleKeys превращает прямоугольники в клавиши с новым id
// и одним слоем base со стилем по умолчанию.
func AssembleKeys(rects []models.Rect, ids IDProvider) []models.Key {
	if ids == nil {
		ids = UUIDProvider{}
	}

	keys := make([]models.Key, 0, len(rects))
	for _, r := range rects {
		keys = append(keys, models.Key{
			ID:       ids.NewID(),
			X:        r.CX,
			Y:        r.CY,
			Width:    r.Width,
			Height:   r.Height,
			Rotation: 0,
			Layers: map[string]models.LayerStyle{
				models.BaseLayer: models.DefaultStyle(),
			},
		})
	}
	return keys
}
