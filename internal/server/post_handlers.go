package server

import (
	"github.com/gofiber/fiber/v2"

	"tomosu/internal/models"
)

// GetPosts handles GET /api/v1/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.cache.ListPosts(page.Offset, page.Limit, viewerID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/v1/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.cache.CreatePost(userID, req.Content, req.Tags)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/v1/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.cache.GetPost(id, viewerID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(post)
}

// GetComments handles GET /api/v1/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)

	comments, err := s.cache.ListComments(id, page.Offset, page.Limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(comments)
}
