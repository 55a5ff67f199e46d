package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sohbetapp/sohbet-server/internal/auth"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := auth.ValidateRegistration(req.Email, req.Password, req.ConfirmPassword); err != nil {
		return fail(c, err)
	}
	u, token, err := s.svc.Auth.Register(c.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "token": token})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	u, token, err := s.svc.Auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u, "token": token})
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.svc.Auth.Logout(c.Context())
	return c.JSON(fiber.Map{"status": "ok"})
}
