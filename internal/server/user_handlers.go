package server

import (
	"github.com/gofiber/fiber/v2"

	"tomosu/internal/models"
)

// GetUserProfile handles GET /api/v1/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.cache.GetUserProfile(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(profile)
}

// GetFollowers handles GET /api/v1/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.cache.ListFollowers(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/v1/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.cache.ListFollowing(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(following)
}

// GetBookmarks handles GET /api/v1/users/:id/bookmarks. Bookmark lists are
// private: only the authenticated owner may read their own.
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)
	if userID != id {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Cannot read another user's bookmarks"))
	}
	page := parsePagination(c)

	posts, err := s.cache.ListBookmarks(id, page.Offset, page.Limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(posts)
}
