package server

import (
	"github.com/gofiber/fiber/v2"

	"tomosu/internal/models"
)

// GetTags handles GET /api/v1/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.cache.ListTags()
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(tags)
}

// GetPostsByTag handles GET /api/v1/tags/:name/posts. An unknown tag yields
// an empty list, matching the cache manager's contract.
func (s *Server) GetPostsByTag(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tag name is required"))
	}

	page := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.cache.ListPostsByTag(name, page.Offset, page.Limit, viewerID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(posts)
}
