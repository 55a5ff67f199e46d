package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.svc.Users.ListAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	u, err := s.svc.Users.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}
