package controllers

import (
	"fmt"
	"time"

	"municipal-portal-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// exportPageSize caps one export at a single large page.
const exportPageSize = 10000

// ExportApplicationsController writes the filtered application register
// to an xlsx workbook for offline municipal records.
func (ac *ApplicationController) ExportApplicationsController(c *fiber.Ctx) error {
	filters := make(map[string]string)
	for _, key := range []string{"status", "document_type", "applicant_id", "start_date", "end_date"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	apps, total, err := ac.ApplicationRepo.GetFilteredApplications(exportPageSize, 0, filters)
	if err != nil {
		config.Logger.Error("Failed to fetch applications for export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export applications",
			"error":   err.Error(),
		})
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			config.Logger.Warn("Failed to close export workbook", zap.Error(closeErr))
		}
	}()

	const sheet = "Applications"
	index, err := f.NewSheet(sheet)
	if err != nil {
		config.Logger.Error("Failed to create export sheet", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export applications",
			"error":   err.Error(),
		})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Application Code", "Document Type", "Status", "Applicant",
		"Applicant Email", "Payment Status", "Amount", "UTR Number",
		"Submitted At", "Reviewed At", "Admin Remarks",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, app := range apps {
		var amount, utr, reviewedAt, remarks string
		if app.PaymentDetails.Amount != nil {
			amount = app.PaymentDetails.Amount.StringFixed(2)
		}
		if app.PaymentDetails.UTRNumber != nil {
			utr = *app.PaymentDetails.UTRNumber
		}
		if app.ReviewedAt != nil {
			reviewedAt = app.ReviewedAt.Format(time.RFC3339)
		}
		if app.AdminRemarks != nil {
			remarks = *app.AdminRemarks
		}

		values := []interface{}{
			app.ApplicationCode,
			app.DocumentType.DisplayName(),
			string(app.Status),
			app.Applicant.FullName,
			app.Applicant.Email,
			string(app.PaymentDetails.PaymentStatus),
			amount,
			utr,
			app.CreatedAt.Format(time.RFC3339),
			reviewedAt,
			remarks,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		config.Logger.Error("Failed to render export workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export applications",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Exported applications",
		zap.Int64("total", total),
		zap.Int("exported", len(apps)))

	filename := fmt.Sprintf("applications-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
