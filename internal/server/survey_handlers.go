package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSurveys handles GET /api/v1/surveys
func (s *Server) GetSurveys(c *fiber.Ctx) error {
	surveys, err := s.cache.ListSurveys()
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(surveys)
}

// GetSurvey handles GET /api/v1/surveys/:id
func (s *Server) GetSurvey(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	survey, err := s.cache.GetSurvey(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(survey)
}

// GetSurveyResponses handles GET /api/v1/surveys/:id/responses, returning
// the aggregated per-choice statistics for one survey.
func (s *Server) GetSurveyResponses(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	results, err := s.cache.GetSurveyResults(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(results)
}
