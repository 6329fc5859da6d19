package controllers

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"municipal-portal-backend/applications/services"
	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitApplicationController handles a citizen's multipart submission:
// form fields, one payment receipt and up to five supporting documents.
// Validation runs before any object is uploaded; the DB write is a single
// transaction so the form record and the application can never diverge.
func (ac *ApplicationController) SubmitApplicationController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		config.Logger.Error("Invalid user ID in token payload", zap.String("userID", payload.UserID))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "invalid user identity",
		})
	}

	docType := models.DocumentType(strings.ToLower(strings.TrimSpace(c.FormValue("documentType"))))
	if !docType.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unsupported document type",
			"error":   fmt.Sprintf("unknown document type: %s", docType),
		})
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		config.Logger.Error("Failed to parse multipart form", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	// Flatten to first-value semantics; the forms never repeat a field.
	fields := make(map[string]string, len(multipartForm.Value))
	for key, values := range multipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	// Validate everything before touching object storage.
	formRecord, err := services.ValidateSubmission(docType, fields)
	if err != nil {
		if services.IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Form validation failed",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Form validation failed unexpectedly", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to validate submission",
			"error":   err.Error(),
		})
	}

	receipts := multipartForm.File["paymentReceipt"]
	if len(receipts) != 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Exactly one payment receipt is required",
			"error":   "paymentReceipt must contain one file",
		})
	}
	receipt := receipts[0]
	if err := services.ValidateReceiptFile(receipt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment receipt rejected",
			"error":   err.Error(),
		})
	}

	documents := multipartForm.File["documents"]
	if err := services.ValidateSupportingFiles(documents); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Supporting document rejected",
			"error":   err.Error(),
		})
	}

	fee, err := services.ApplicationFee(docType)
	if err != nil {
		config.Logger.Error("No fee configured for document type", zap.String("documentType", string(docType)))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to resolve application fee",
			"error":   err.Error(),
		})
	}

	applicationCode, err := services.GenerateApplicationCode(docType)
	if err != nil {
		config.Logger.Error("Failed to generate application code", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate application code",
			"error":   err.Error(),
		})
	}

	// Upload the receipt and documents to the unverified folder. Keys are
	// tracked so a failed submission can sweep its own objects back out.
	var uploadedKeys []string
	cleanupObjects := func() {
		for _, key := range uploadedKeys {
			if delErr := ac.Storage.Delete(c.Context(), key); delErr != nil {
				config.Logger.Warn("Failed to clean up uploaded object",
					zap.String("key", key), zap.Error(delErr))
			}
		}
	}

	now := time.Now()
	var uploadedFiles []models.UploadedFile

	storeFile := func(fh *multipart.FileHeader, isReceipt bool) error {
		src, openErr := fh.Open()
		if openErr != nil {
			return fmt.Errorf("failed to open %s: %w", fh.Filename, openErr)
		}
		defer src.Close()

		stored, upErr := ac.Storage.Upload(c.Context(), storage.UploadInput{
			OriginalName: fh.Filename,
			ContentType:  fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Reader:       src,
		}, storage.FolderUnverified)
		if upErr != nil {
			return fmt.Errorf("failed to store %s: %w", fh.Filename, upErr)
		}

		uploadedKeys = append(uploadedKeys, stored.Key)
		uploadedFiles = append(uploadedFiles, models.UploadedFile{
			FileName:         stored.Key,
			OriginalName:     stored.OriginalName,
			FileKey:          stored.Key,
			FileType:         stored.ContentType,
			FileSize:         stored.Size,
			Folder:           string(storage.FolderUnverified),
			IsPaymentReceipt: isReceipt,
			UploadedAt:       now,
		})
		return nil
	}

	if err := storeFile(receipt, true); err != nil {
		config.Logger.Error("Receipt upload failed", zap.Error(err))
		cleanupObjects()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store payment receipt",
			"error":   err.Error(),
		})
	}
	for _, doc := range documents {
		if err := storeFile(doc, false); err != nil {
			config.Logger.Error("Document upload failed", zap.Error(err))
			cleanupObjects()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to store supporting document",
				"error":   err.Error(),
			})
		}
	}

	utrNumber := strings.TrimSpace(c.FormValue("utrNumber"))

	application := &models.Application{
		ApplicationCode: applicationCode,
		ApplicantID:     userID,
		DocumentType:    docType,
		Status:          models.PendingApplication,
		PaymentDetails: models.PaymentDetails{
			PaymentStatus: models.PendingPayment,
			Amount:        &fee,
		},
		UploadedFiles: uploadedFiles,
	}
	if utrNumber != "" {
		application.PaymentDetails.UTRNumber = &utrNumber
	}

	created, err := ac.ApplicationRepo.CreateWithFormData(application, formRecord)
	if err != nil {
		config.Logger.Error("Failed to persist application", zap.Error(err))
		cleanupObjects()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create application",
			"error":   err.Error(),
		})
	}

	// The Payment row is the authoritative record of the manual receipt.
	receiptKey := uploadedFiles[0].FileKey
	payment := &models.Payment{
		ApplicationID:  &created.ID,
		UserID:         userID,
		Method:         models.ManualReceiptPayment,
		Amount:         fee,
		Currency:       "INR",
		Status:         models.PendingPayment,
		ReceiptFileKey: &receiptKey,
	}
	if utrNumber != "" {
		payment.UTRNumber = &utrNumber
	}
	if err := ac.DB.WithContext(c.Context()).Create(payment).Error; err != nil {
		// The application stands; the payment mirror on it still reflects
		// the submitted amount and UTR.
		config.Logger.Error("Failed to record manual payment row",
			zap.String("applicationCode", created.ApplicationCode), zap.Error(err))
	}

	// Post-commit side effects never fail the submission.
	ac.NotificationSvc.NotifyApplicationSubmitted(created)
	if ac.BleveRepo != nil {
		if err := ac.BleveRepo.IndexApplication(created); err != nil {
			config.Logger.Warn("Failed to index application",
				zap.String("applicationCode", created.ApplicationCode), zap.Error(err))
		}
	}

	config.Logger.Info("Application submitted",
		zap.String("applicationCode", created.ApplicationCode),
		zap.String("documentType", string(docType)),
		zap.String("applicantID", userID.String()))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Application submitted successfully",
		"data":    created,
	})
}
