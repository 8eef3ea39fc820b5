package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на запрос с request id. Пробы /health/* не логируются.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Next:       skipProbes,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | rid=${respHeader:X-Request-ID} | ${bytesReceived}B in ${bytesSent}B out\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

func skipProbes(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/health/")
}
