package handlers

import (
	"centime/internal/services/maintenance"
	"centime/internal/services/recurring"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the batch job triggers. The same jobs also run on
// the background worker tickers; these endpoints exist for operational
// (re)runs.
type AdminHandler struct {
	schedules   *recurring.Service
	maintenance *maintenance.Service
}

func NewAdminHandler(schedules *recurring.Service, maintenance *maintenance.Service) *AdminHandler {
	return &AdminHandler{schedules: schedules, maintenance: maintenance}
}

// ProcessRecurring fires every due recurring series.
func (h *AdminHandler) ProcessRecurring(c *fiber.Ctx) error {
	fired, err := h.schedules.ProcessDue(c.Context())
	if err != nil {
		return response.ServerError(c, "recurring processing failed")
	}
	return c.JSON(fiber.Map{"occurrences": fired})
}

// ApplyMonthlyInterest runs the interest/overdraft maintenance pass.
func (h *AdminHandler) ApplyMonthlyInterest(c *fiber.Ctx) error {
	report, err := h.maintenance.Run(c.Context())
	if err != nil {
		return response.ServerError(c, "maintenance run failed")
	}
	return c.JSON(fiber.Map{
		"interest_applied":  report.InterestApplied,
		"penalties_applied": report.PenaltiesApplied,
		"blocked":           report.Blocked,
		"unblocked":         report.Unblocked,
		"errors":            len(report.Errors),
	})
}
