package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

var probeClient = &http.Client{Timeout: 2 * time.Second}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe считает шлюз готовым, когда отвечает сервис раскладок.
func ReadinessProbe(layoutURL string) fiber.Handler {
	target := strings.TrimRight(layoutURL, "/") + "/health/ready"
	return func(c fiber.Ctx) error {
		resp, err := probeClient.Get(target)
		if err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  "layout service unreachable",
			})
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"upstream": resp.StatusCode,
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
