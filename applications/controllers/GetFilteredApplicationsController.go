package controllers

import (
	"municipal-portal-backend/config"
	"municipal-portal-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetFilteredApplicationsController pages the admin review queue with
// optional status, document_type, applicant and date-range filters.
func (ac *ApplicationController) GetFilteredApplicationsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	filters := make(map[string]string)
	for _, key := range []string{"status", "document_type", "applicant_id", "start_date", "end_date"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	apps, total, err := ac.ApplicationRepo.GetFilteredApplications(params.PageSize, params.Offset(), filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered applications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch applications",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Fetched filtered applications",
		zap.Int("page", params.Page),
		zap.Int("pageSize", params.PageSize),
		zap.Int64("total", total),
		zap.Int("resultsCount", len(apps)))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Applications fetched successfully",
		"data":    pagination.NewPaginatedResponse(c, apps, total, params),
	})
}
