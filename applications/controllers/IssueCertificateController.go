package controllers

import (
	"errors"
	"time"

	"municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/applications/services"
	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueCertificateController attaches the final signed certificate PDF to
// an approved application and moves it to certificate_generated.
func (ac *ApplicationController) IssueCertificateController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}
	issuerID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "invalid issuer identity",
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

	certFile, err := c.FormFile("certificate")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Certificate file is required",
			"error":   err.Error(),
		})
	}
	if err := services.ValidateCertificateFile(certFile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Certificate file rejected",
			"error":   err.Error(),
		})
	}

	src, err := certFile.Open()
	if err != nil {
		config.Logger.Error("Failed to open certificate upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read certificate file",
			"error":   err.Error(),
		})
	}
	defer src.Close()

	stored, err := ac.Storage.Upload(c.Context(), storage.UploadInput{
		OriginalName: certFile.Filename,
		ContentType:  certFile.Header.Get("Content-Type"),
		Size:         certFile.Size,
		Reader:       src,
	}, storage.FolderCertificate)
	if err != nil {
		config.Logger.Error("Failed to store certificate", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store certificate",
			"error":   err.Error(),
		})
	}

	cert := &models.GeneratedCertificate{
		FileName: certFile.Filename,
		FileKey:  stored.Key,
		FileSize: stored.Size,
		IssuedBy: issuerID,
		IssuedAt: time.Now(),
	}

	app, err := ac.ApplicationRepo.AttachCertificate(applicationID, cert)
	if err != nil {
		if delErr := ac.Storage.Delete(c.Context(), stored.Key); delErr != nil {
			config.Logger.Warn("Failed to clean up certificate object",
				zap.String("key", stored.Key), zap.Error(delErr))
		}
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Application not found",
				"error":   err.Error(),
			})
		case errors.Is(err, repositories.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Certificate can only be issued for an approved application",
				"error":   err.Error(),
			})
		default:
			config.Logger.Error("Failed to attach certificate",
				zap.String("applicationID", applicationID.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to issue certificate",
				"error":   err.Error(),
			})
		}
	}

	ac.NotificationSvc.NotifyCertificateReady(app)
	if ac.BleveRepo != nil {
		if err := ac.BleveRepo.IndexApplication(app); err != nil {
			config.Logger.Warn("Failed to reindex application",
				zap.String("applicationCode", app.ApplicationCode), zap.Error(err))
		}
	}

	config.Logger.Info("Certificate issued",
		zap.String("applicationCode", app.ApplicationCode),
		zap.String("issuedBy", issuerID.String()))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Certificate issued successfully",
		"data":    app,
	})
}
