package controllers

import (
	"errors"

	"municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/config"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetApplicationByIdController returns one application with its typed
// form data, file descriptors and certificate. Owner or admin only; a
// foreign ID answers 404, indistinguishable from a nonexistent one.
func (ac *ApplicationController) GetApplicationByIdController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}

	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
			"error":   err.Error(),
		})
	}

	app, err := ac.ApplicationRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Application not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to fetch application",
			zap.String("applicationID", applicationID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch application",
			"error":   err.Error(),
		})
	}

	if app.ApplicantID.String() != payload.UserID && !payload.IsAdmin() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
			"error":   "not found",
		})
	}

	formData, err := ac.ApplicationRepo.GetFormData(app)
	if err != nil {
		config.Logger.Error("Failed to load form data",
			zap.String("applicationCode", app.ApplicationCode), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load application form data",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Application fetched successfully",
		"data": fiber.Map{
			"application": app,
			"form_data":   formData,
		},
	})
}
