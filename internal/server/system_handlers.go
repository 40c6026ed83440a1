package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSystemStats handles GET /api/v1/system/stats, exposing the cache
// manager's statistics surface: readiness, per-entity record counts, load
// duration, and cumulative request/error/latency counters.
func (s *Server) GetSystemStats(c *fiber.Ctx) error {
	return c.JSON(s.cache.Stats())
}
