package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

func (s *Server) findOrCreateConversation(c *fiber.Ctx) error {
	var req struct {
		OtherUserID string `json:"other_user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OtherUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	uid := c.Locals("user_id").(string)
	id, err := s.svc.Directory.FindOrCreate(c.Context(), uid, req.OtherUserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversation_id": id})
}

func (s *Server) listConversations(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)
	convs, err := s.svc.Directory.ListForParticipant(c.Context(), uid)
	if err != nil {
		return fail(c, err)
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

func (s *Server) listMessages(c *fiber.Ctx) error {
	msgs, err := s.svc.Messages.History(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	uid := c.Locals("user_id").(string)

	// sender name is denormalized into the message at send time
	senderName := ""
	if u, err := s.svc.Users.GetByID(c.Context(), uid); err == nil {
		senderName = u.DisplayName
	}

	id, err := s.svc.Messages.Append(c.Context(), c.Params("id"), req.Text, uid, senderName)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message_id": id})
}
