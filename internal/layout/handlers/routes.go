package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Register вешает маршруты сервиса раскладок на роутер.
func (h *LayoutHandler) Register(r fiber.Router) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", h.ReadinessProbe)

	r.Post("/import", h.Import)
	r.Post("/render", h.Render)

	r.Get("/layouts", h.ListLayouts)
	r.Post("/layouts", h.CreateLayout)
	r.Get("/layouts/:id", h.GetLayout)
	r.Put("/layouts/:id", h.UpdateLayout)
	r.Delete("/layouts/:id", h.DeleteLayout)
	r.Post("/layouts/:id/layers", h.AddLayer)
	r.Patch("/layouts/:id/keys/:keyID/layers/:layer", h.PatchKeyStyle)
	r.Get("/layouts/:id/export", h.ExportLayout)
}
