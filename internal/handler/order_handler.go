package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler/middleware"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validator
}

func NewOrderHandler(orderService *service.OrderService, validator *validator.Validator) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator,
	}
}

// Create places an order for the authenticated user
// POST /api/v1/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	session := middleware.SessionFromCtx(c)
	order, err := h.orderService.Create(c.Context(), session, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// ListMine returns the authenticated user's orders
// GET /api/v1/orders
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	orders, err := h.orderService.ListMine(c.Context(), session)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

// Get returns one order, owner or admin only
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	session := middleware.SessionFromCtx(c)
	order, err := h.orderService.Get(c.Context(), session, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

// AdminList returns all orders
// GET /api/v1/admin/orders
func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	orders, err := h.orderService.ListAll(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

// UpdateStatus moves an order through its lifecycle
// PATCH /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending paid shipped cancelled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.orderService.UpdateStatus(c.Context(), id, domain.OrderStatus(req.Status)); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Order status updated",
	})
}
