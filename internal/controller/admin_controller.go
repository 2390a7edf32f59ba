package controller

import (
	"crypto/subtle"
	"errors"
	"strings"

	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/pkg/serverutils"
	"asistentas-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	token   string
}

// NewAdminController serves the log viewer. With an empty token the routes
// are not registered at all.
func NewAdminController(service service.IAdminService, token string) IAdminController {
	return &adminController{service: service, token: token}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	if c.token == "" {
		return
	}
	h := r.Group("/admin")
	h.Use(c.adminMiddleware)

	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid token"))
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(tokenStr), []byte(c.token)) != 1 {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Admins only"))
	}
	return ctx.Next()
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	logs, err := c.service.GetSystemLogs(ctx.Context(), logger.LogFilter{
		Level:  ctx.Query("level", ""),
		Module: ctx.Query("module", ""),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // MD5 of the raw line, not a UUID

	l, err := c.service.GetLogDetail(ctx.Context(), logId)
	if errors.Is(err, service.ErrLogNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
