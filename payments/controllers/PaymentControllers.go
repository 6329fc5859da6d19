package controllers

import (
	"errors"

	application_repositories "municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	notification_services "municipal-portal-backend/notifications/services"
	"municipal-portal-backend/payments/repositories"
	"municipal-portal-backend/payments/services"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentController struct {
	PaymentRepo     repositories.PaymentRepository
	ApplicationRepo application_repositories.ApplicationRepository
	Gateway         *services.GatewayClient
	NotificationSvc *notification_services.NotificationService
}

type CreateOrderRequest struct {
	ApplicationID string `json:"application_id"`
}

// CreateOrderController opens a gateway checkout for an application's
// fee. The amount always comes from the stored application, never from
// the client.
func (pc *PaymentController) CreateOrderController(c *fiber.Ctx) error {
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
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "invalid user identity",
		})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
			"error":   err.Error(),
		})
	}

	app, err := pc.ApplicationRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, application_repositories.ErrApplicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Application not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to fetch application for payment",
			zap.String("applicationID", applicationID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch application",
			"error":   err.Error(),
		})
	}

	if app.ApplicantID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
			"error":   "not found",
		})
	}

	if app.PaymentDetails.PaymentStatus == models.PaidPayment {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Application fee has already been paid",
			"error":   "payment already completed",
		})
	}
	if app.PaymentDetails.Amount == nil {
		config.Logger.Error("Application has no fee amount",
			zap.String("applicationCode", app.ApplicationCode))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Application fee is not configured",
			"error":   "missing fee amount",
		})
	}

	payment := &models.Payment{
		ApplicationID: &app.ID,
		UserID:        userID,
		Method:        models.GatewayPayment,
		Amount:        *app.PaymentDetails.Amount,
		Currency:      "INR",
		Status:        models.PendingPayment,
	}
	if err := pc.PaymentRepo.CreatePayment(payment); err != nil {
		config.Logger.Error("Failed to create payment record", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create payment",
			"error":   err.Error(),
		})
	}

	order, err := pc.Gateway.CreateOrder(c.Context(), payment.Amount, payment.Currency, payment.ReceiptNumber)
	if err != nil {
		config.Logger.Error("Gateway order creation failed",
			zap.String("applicationCode", app.ApplicationCode), zap.Error(err))
		if markErr := pc.PaymentRepo.MarkFailed(payment.ID, err.Error()); markErr != nil {
			config.Logger.Warn("Failed to mark payment failed", zap.Error(markErr))
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Payment gateway is unavailable",
			"error":   err.Error(),
		})
	}

	if err := pc.PaymentRepo.AttachOrder(payment.ID, order.ID); err != nil {
		config.Logger.Error("Failed to attach gateway order",
			zap.String("orderID", order.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to record gateway order",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Gateway order created",
		zap.String("applicationCode", app.ApplicationCode),
		zap.String("orderID", order.ID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"data": fiber.Map{
			"order_id": order.ID,
			"amount":   order.Amount,
			"currency": order.Currency,
			"key_id":   pc.Gateway.KeyID(),
		},
	})
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// VerifyPaymentController closes the checkout loop: the gateway's
// callback signature proves the payment, the Payment row flips to paid
// and the application's payment mirror follows.
func (pc *PaymentController) VerifyPaymentController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "order_id, payment_id and signature are required",
			"error":   "missing verification fields",
		})
	}

	payment, err := pc.PaymentRepo.GetByOrderID(req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Payment not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to fetch payment", zap.String("orderID", req.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch payment",
			"error":   err.Error(),
		})
	}

	if payment.UserID.String() != payload.UserID && !payload.IsAdmin() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Payment not found",
			"error":   "not found",
		})
	}

	if !pc.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		config.Logger.Warn("Payment signature verification failed",
			zap.String("orderID", req.OrderID))
		if markErr := pc.PaymentRepo.MarkFailed(payment.ID, "signature verification failed"); markErr != nil {
			config.Logger.Warn("Failed to mark payment failed", zap.Error(markErr))
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment verification failed",
			"error":   "invalid signature",
		})
	}

	if err := pc.PaymentRepo.MarkVerified(payment.ID, req.PaymentID); err != nil {
		config.Logger.Error("Failed to mark payment verified",
			zap.String("orderID", req.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to record payment",
			"error":   err.Error(),
		})
	}

	if payment.ApplicationID != nil {
		details := models.PaymentDetails{
			PaymentStatus: models.PaidPayment,
			Amount:        &payment.Amount,
		}
		if err := pc.ApplicationRepo.UpdatePaymentDetails(*payment.ApplicationID, details); err != nil {
			config.Logger.Warn("Failed to update application payment mirror",
				zap.String("applicationID", payment.ApplicationID.String()), zap.Error(err))
		}
		if app, err := pc.ApplicationRepo.GetByID(*payment.ApplicationID); err == nil {
			pc.NotificationSvc.NotifyPaymentVerified(app)
		}
	}

	config.Logger.Info("Payment verified",
		zap.String("orderID", req.OrderID),
		zap.String("paymentID", req.PaymentID))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Payment verified successfully",
	})
}
