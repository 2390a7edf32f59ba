package controller

import (
	"context"
	"errors"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/serverutils"
	"asistentas-gateway/internal/service"
	"asistentas-gateway/pkg/backend"

	"github.com/gofiber/fiber/v2"
)

// IProxyController exposes the stateless backend proxies the chat page used
// before sessions existed. Bodies pass through unchanged.
type IProxyController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	DocumentChat(ctx *fiber.Ctx) error
	DocumentWorkflow(ctx *fiber.Ctx) error
}

type proxyController struct {
	service service.IProxyService
}

func NewProxyController(service service.IProxyService) IProxyController {
	return &proxyController{service: service}
}

func (c *proxyController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/document-chat", c.DocumentChat)
	r.Post("/document-workflow", c.DocumentWorkflow)
	r.Post("/workflows/create_direct_document_workflow", c.DocumentWorkflow)
}

func (c *proxyController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatProxyRequest
	if ok, err := bindProxyRequest(ctx, &req); !ok {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return writeProxyError(ctx, err, "An error occurred while processing your request")
	}
	return ctx.JSON(res)
}

func (c *proxyController) DocumentChat(ctx *fiber.Ctx) error {
	var req dto.DocumentChatRequest
	if ok, err := bindProxyRequest(ctx, &req); !ok {
		return err
	}

	res, err := c.service.DocumentChat(ctx.UserContext(), &req)
	if err != nil {
		return writeProxyError(ctx, err, "Failed to get response from backend service")
	}
	return ctx.JSON(res)
}

func (c *proxyController) DocumentWorkflow(ctx *fiber.Ctx) error {
	var req dto.DocumentWorkflowRequest
	if ok, err := bindProxyRequest(ctx, &req); !ok {
		return err
	}

	res, err := c.service.DocumentWorkflow(ctx.UserContext(), &req)
	if err != nil {
		return writeProxyError(ctx, err, "Failed to create document workflow")
	}
	return ctx.JSON(res)
}

// bindProxyRequest writes the 400 itself and reports false when the body is
// unusable.
func bindProxyRequest(ctx *fiber.Ctx, req interface{}) (bool, error) {
	if err := ctx.BodyParser(req); err != nil {
		return false, ctx.Status(fiber.StatusBadRequest).JSON(dto.ProxyErrorResponse{Error: "Invalid request body"})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return false, ctx.Status(fiber.StatusBadRequest).JSON(dto.ProxyErrorResponse{Error: err.Error()})
	}
	return true, nil
}

// writeProxyError forwards the backend's status and detail. Transport
// failures become 500, timeouts 504.
func writeProxyError(ctx *fiber.Ctx, err error, fallback string) error {
	if apiErr, ok := backend.AsAPIError(err); ok {
		resp := dto.ProxyErrorResponse{Error: "Backend error: " + apiErr.Detail}
		if len(apiErr.Body) > 0 {
			resp.Details = apiErr.Body
		}
		return ctx.Status(apiErr.StatusCode).JSON(resp)
	}

	status := fiber.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = fiber.StatusGatewayTimeout
	}
	return ctx.Status(status).JSON(dto.ProxyErrorResponse{
		Error:   fallback,
		Details: err.Error(),
	})
}
