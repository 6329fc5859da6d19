package controllers

import (
	"municipal-portal-backend/config"
	"municipal-portal-backend/token"
	"municipal-portal-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserApplicationsController lists a citizen's own applications,
// newest first. Admins may list any user's; a non-owner client gets 404
// rather than confirmation that the user exists.
func (ac *ApplicationController) GetUserApplicationsController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}

	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID",
			"error":   err.Error(),
		})
	}

	if payload.UserID != targetID.String() && !payload.IsAdmin() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Applications not found",
			"error":   "not found",
		})
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	apps, total, err := ac.ApplicationRepo.GetUserApplications(targetID, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch user applications",
			zap.String("userID", targetID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch applications",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Applications fetched successfully",
		"data":    pagination.NewPaginatedResponse(c, apps, total, params),
	})
}
