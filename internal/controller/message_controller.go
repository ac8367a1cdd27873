package controller

import (
	"ai-therapist-be/internal/dto"
	"ai-therapist-be/internal/pkg/serverutils"
	"ai-therapist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
	SessionMessages(ctx *fiber.Ctx) error
	DeleteSessionMessages(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
}

type messageController struct {
	service service.IMessageService
}

func NewMessageController(service service.IMessageService) IMessageController {
	return &messageController{service: service}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/messages")
	h.Get("/history/:user_id", c.History)
	h.Get("/session/:session_id", c.SessionMessages)
	h.Delete("/session/:session_id", c.DeleteSessionMessages)
	h.Post("/save", c.Save)
}

func (c *messageController) History(ctx *fiber.Ctx) error {
	res, err := c.service.GetChatHistory(ctx.Context(), ctx.Params("user_id"), ctx.Query("session_id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *messageController) SessionMessages(ctx *fiber.Ctx) error {
	res, err := c.service.GetSessionMessages(ctx.Context(), ctx.Params("session_id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session messages", res))
}

func (c *messageController) DeleteSessionMessages(ctx *fiber.Ctx) error {
	deleted, err := c.service.DeleteSessionMessages(ctx.Context(), ctx.Params("session_id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session messages deleted", fiber.Map{"deleted": deleted}))
}

func (c *messageController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message saved", res))
}
