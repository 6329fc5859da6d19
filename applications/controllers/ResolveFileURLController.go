package controllers

import (
	"errors"
	"mime"
	"path/filepath"

	"municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolveFileURLController exchanges a file selector for a short-lived
// signed URL. The selector is "receipt", "certificate" or a file ID
// belonging to the application. Resolving the certificate counts as a
// download.
func (ac *ApplicationController) ResolveFileURLController(c *fiber.Ctx) error {
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
		config.Logger.Error("Failed to fetch application for file resolution",
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

	selector := c.Params("selector")
	fileKey, err := ac.resolveFileKey(app, selector)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "File not found",
			"error":   err.Error(),
		})
	}

	signedURL, err := ac.Storage.SignedURL(fileKey, signedURLTTL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to sign file URL",
			zap.String("fileKey", fileKey), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to resolve file URL",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "File URL resolved successfully",
		"data": fiber.Map{
			"url":        signedURL,
			"expires_in": int(signedURLTTL.Seconds()),
		},
	})
}

func (ac *ApplicationController) resolveFileKey(app *models.Application, selector string) (string, error) {
	switch selector {
	case "receipt":
		receipt := app.ReceiptFile()
		if receipt == nil {
			return "", errors.New("application has no payment receipt")
		}
		return receipt.FileKey, nil
	case "certificate":
		if app.Certificate == nil {
			return "", errors.New("certificate has not been issued")
		}
		if err := ac.ApplicationRepo.IncrementCertificateDownloads(app.Certificate.ID); err != nil {
			config.Logger.Warn("Failed to count certificate download",
				zap.String("applicationCode", app.ApplicationCode), zap.Error(err))
		}
		return app.Certificate.FileKey, nil
	default:
		fileID, err := uuid.Parse(selector)
		if err != nil {
			return "", errors.New("unknown file selector")
		}
		file, err := ac.ApplicationRepo.GetFileByID(app.ID, fileID)
		if err != nil {
			return "", err
		}
		return file.FileKey, nil
	}
}

// FileServeController is the public endpoint signed URLs point at. The
// signature covers both the key and the expiry timestamp.
func (ac *ApplicationController) FileServeController(c *fiber.Ctx) error {
	key := c.Query("key")
	expires := c.Query("expires")
	signature := c.Query("signature")

	if key == "" || expires == "" || signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing signed URL parameters",
			"error":   "key, expires and signature are required",
		})
	}

	if err := ac.Signer.Verify(key, expires, signature); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or expired file URL",
			"error":   err.Error(),
		})
	}

	reader, err := ac.Storage.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to open stored object",
			zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to serve file",
			"error":   err.Error(),
		})
	}

	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.SendStream(reader)
}
