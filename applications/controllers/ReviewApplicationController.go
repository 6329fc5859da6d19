package controllers

import (
	"errors"
	"strings"

	"municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewApplicationRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// ReviewApplicationController lets an admin approve or reject a pending
// application. Approval relocates the applicant's files from the
// unverified to the verified folder.
func (ac *ApplicationController) ReviewApplicationController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}
	reviewerID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "invalid reviewer identity",
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

	var req ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Invalid request body for ReviewApplication", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var next models.ApplicationStatus
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case string(models.ApprovedApplication):
		next = models.ApprovedApplication
	case string(models.RejectedApplication):
		next = models.RejectedApplication
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Review status must be approved or rejected",
			"error":   "invalid review status: " + req.Status,
		})
	}

	if next == models.RejectedApplication && strings.TrimSpace(req.Remarks) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Remarks are required when rejecting an application",
			"error":   "missing remarks",
		})
	}

	app, err := ac.ApplicationRepo.ReviewApplication(applicationID, next, strings.TrimSpace(req.Remarks), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Application not found",
				"error":   err.Error(),
			})
		case errors.Is(err, repositories.ErrAlreadyReviewed), errors.Is(err, repositories.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Application has already been reviewed",
				"error":   err.Error(),
			})
		default:
			config.Logger.Error("Failed to review application",
				zap.String("applicationID", applicationID.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to review application",
				"error":   err.Error(),
			})
		}
	}

	if next == models.ApprovedApplication {
		ac.promoteApplicationFiles(c, app)
		// Reload so the response carries the relocated file descriptors.
		if refreshed, err := ac.ApplicationRepo.GetByID(app.ID); err == nil {
			app = refreshed
		}
	}

	ac.NotificationSvc.NotifyApplicationReviewed(app)
	if ac.BleveRepo != nil {
		if err := ac.BleveRepo.IndexApplication(app); err != nil {
			config.Logger.Warn("Failed to reindex application",
				zap.String("applicationCode", app.ApplicationCode), zap.Error(err))
		}
	}

	config.Logger.Info("Application reviewed",
		zap.String("applicationCode", app.ApplicationCode),
		zap.String("status", string(app.Status)),
		zap.String("reviewedBy", reviewerID.String()))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Application reviewed successfully",
		"data":    app,
	})
}

// promoteApplicationFiles moves every unverified object of an approved
// application into the verified folder and updates its descriptor. A
// failed move leaves that file behind in unverified with its old key.
func (ac *ApplicationController) promoteApplicationFiles(c *fiber.Ctx, app *models.Application) {
	for i := range app.UploadedFiles {
		file := &app.UploadedFiles[i]
		if file.Folder != string(storage.FolderUnverified) {
			continue
		}

		newKey, err := ac.Storage.MoveToFolder(c.Context(), file.FileKey, storage.FolderVerified)
		if err != nil {
			config.Logger.Error("Failed to move file to verified folder",
				zap.String("fileKey", file.FileKey), zap.Error(err))
			continue
		}
		if err := ac.ApplicationRepo.UpdateFileLocation(file.ID, newKey, string(storage.FolderVerified)); err != nil {
			config.Logger.Error("Failed to update file descriptor after move",
				zap.String("fileKey", newKey), zap.Error(err))
		}
	}
}
