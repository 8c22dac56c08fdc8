package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/pkg/serverutils"
	"lab-assistant-be/internal/service"
)

type IRequestController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ToolCalls(ctx *fiber.Ctx) error
}

type requestController struct {
	requestService service.IRequestService
}

func NewRequestController(requestService service.IRequestService) IRequestController {
	return &requestController{
		requestService: requestService,
	}
}

func (c *requestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/request/v1")
	h.Post("", c.Create)
	h.Get(":id", c.Status)
	h.Get(":id/tool-calls", c.ToolCalls)
}

func (c *requestController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requestService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Request accepted", res))
}

func (c *requestController) Status(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
	}

	res, err := c.requestService.GetStatus(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Request not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Request status", res))
}

func (c *requestController) ToolCalls(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
	}

	res, err := c.requestService.GetToolCalls(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Request not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Tool calls", res))
}
