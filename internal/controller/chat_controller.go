package controller

import (
	"errors"

	"ai-therapist-be/internal/dto"
	"ai-therapist-be/internal/pkg/serverutils"
	"ai-therapist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Audio(ctx *fiber.Ctx) error
	Text(ctx *fiber.Ctx) error
	TextWithAudio(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/audio", c.Audio)
	h.Post("/text", c.Text)
	h.Post("/text-with-audio", c.TextWithAudio)
}

func (c *chatController) Audio(ctx *fiber.Ctx) error {
	var req dto.AudioTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Audio file is required"))
	}

	res, err := c.service.AudioTurn(ctx.Context(), &req, file)
	if err != nil {
		return c.turnError(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *chatController) Text(ctx *fiber.Ctx) error {
	return c.textTurn(ctx, false)
}

func (c *chatController) TextWithAudio(ctx *fiber.Ctx) error {
	return c.textTurn(ctx, true)
}

func (c *chatController) textTurn(ctx *fiber.Ctx, withAudio bool) error {
	var req dto.TextTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.TextTurn(ctx.Context(), &req, withAudio)
	if err != nil {
		return c.turnError(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *chatController) turnError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyInput), errors.Is(err, service.ErrNoSpeech):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}
