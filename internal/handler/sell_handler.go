package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

type SellHandler struct {
	sellService *service.SellService
	validator   *validator.Validator
}

func NewSellHandler(sellService *service.SellService, validator *validator.Validator) *SellHandler {
	return &SellHandler{
		sellService: sellService,
		validator:   validator,
	}
}

// Submit records a public sell-form intake
// POST /api/v1/sell
func (h *SellHandler) Submit(c *fiber.Ctx) error {
	var req service.SellSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	submission, err := h.sellService.Submit(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      submission.ID,
		"status":  submission.Status,
		"message": "Submission received",
	})
}

// AdminList returns submissions, optionally filtered by status
// GET /api/v1/admin/submissions
func (h *SellHandler) AdminList(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	submissions, err := h.sellService.List(c.Context(), domain.SubmissionStatus(c.Query("status")), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"submissions": submissions,
	})
}

// AdminGet returns one submission
// GET /api/v1/admin/submissions/:id
func (h *SellHandler) AdminGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	submission, err := h.sellService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(submission)
}

// Review records an accept or reject decision
// POST /api/v1/admin/submissions/:id/review
func (h *SellHandler) Review(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Accept bool   `json:"accept"`
		Notes  string `json:"notes" validate:"max=2000"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	submission, err := h.sellService.Review(c.Context(), id, req.Accept, req.Notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(submission)
}
