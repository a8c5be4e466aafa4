package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	validator        *validator.Validator
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, validator *validator.Validator) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		validator:        validator,
	}
}

// Track ingests a client-side event. Always 202: ingestion problems are
// logged server side, never surfaced to the page.
// POST /api/v1/analytics/track
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var req service.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.analyticsService.Track(c.Context(), req)

	return c.SendStatus(fiber.StatusAccepted)
}

// DailyCounts returns per-day, per-type event counts
// GET /api/v1/admin/analytics/daily
func (h *AnalyticsHandler) DailyCounts(c *fiber.Ctx) error {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "to must be YYYY-MM-DD")
		}
		to = parsed
	}

	counts, err := h.analyticsService.DailyCounts(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"daily": counts,
	})
}
