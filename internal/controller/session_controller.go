package controller

import (
	"errors"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/serverutils"
	"asistentas-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Focus(ctx *fiber.Ctx) error
	ClearFocus(ctx *fiber.Ctx) error
	Documents(ctx *fiber.Ctx) error
	RefreshDocuments(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.IConversationService
}

func NewSessionController(service service.IConversationService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/messages", c.SendMessage)
	h.Post(":id/focus", c.Focus)
	h.Delete(":id/focus", c.ClearFocus)
	h.Get(":id/documents", c.Documents)
	h.Post(":id/documents/refresh", c.RefreshDocuments)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return sessionError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Submit(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *sessionController) Focus(ctx *fiber.Ctx) error {
	var req dto.FocusRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := c.service.Focus(ctx.UserContext(), ctx.Params("id"), &req)
	if errors.Is(err, service.ErrMissingDocumentID) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusBadRequest, err.Error(), res))
	}
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success focus document", res))
}

func (c *sessionController) ClearFocus(ctx *fiber.Ctx) error {
	res, err := c.service.ClearFocus(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear focus", res))
}

func (c *sessionController) Documents(ctx *fiber.Ctx) error {
	res, err := c.service.Documents(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *sessionController) RefreshDocuments(ctx *fiber.Ctx) error {
	var req dto.RefreshDocumentsRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if city := ctx.Query("city"); city != "" {
		req.City = city
	}

	res, err := c.service.RefreshDocuments(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return sessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success refresh documents", res))
}

// sessionError maps service errors to statuses for the error middleware.
func sessionError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubmissionInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrMissingDocumentID):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
