package controller

import (
	"asistentas-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	RegisterHealth(r fiber.Router)
	RecentProjects(ctx *fiber.Ctx) error
	Cities(ctx *fiber.Ctx) error
	Models(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type projectController struct {
	service service.IProjectService
}

func NewProjectController(service service.IProjectService) IProjectController {
	return &projectController{service: service}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	r.Get("/recent-projects", c.RecentProjects)
	r.Get("/cities", c.Cities)
	r.Get("/models", c.Models)
}

func (c *projectController) RegisterHealth(r fiber.Router) {
	r.Get("/health", c.Health)
}

// RecentProjects answers 500 with an empty list only when nothing was ever
// fetched for this city.
func (c *projectController) RecentProjects(ctx *fiber.Ctx) error {
	res, err := c.service.RecentProjects(ctx.UserContext(), ctx.Query("city"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *projectController) Cities(ctx *fiber.Ctx) error {
	res, err := c.service.Cities(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *projectController) Models(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Models(ctx.UserContext()))
}

func (c *projectController) Health(ctx *fiber.Ctx) error {
	res := c.service.Health(ctx.UserContext())
	if res.Status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return ctx.JSON(res)
}
