package controllers

import (
	"errors"

	"municipal-portal-backend/config"
	"municipal-portal-backend/notifications/repositories"
	"municipal-portal-backend/token"
	"municipal-portal-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationController struct {
	NotificationRepo repositories.NotificationRepository
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return uuid.Nil, errors.New("missing token payload")
	}
	return uuid.Parse(payload.UserID)
}

// GetUserNotificationsController lists the caller's notifications,
// newest first.
func (nc *NotificationController) GetUserNotificationsController(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   err.Error(),
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

	notifications, total, err := nc.NotificationRepo.GetUserNotifications(userID, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch notifications",
			zap.String("userID", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notifications fetched successfully",
		"data":    pagination.NewPaginatedResponse(c, notifications, total, params),
	})
}

// MarkNotificationReadController marks one of the caller's notifications
// as read.
func (nc *NotificationController) MarkNotificationReadController(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   err.Error(),
		})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
			"error":   err.Error(),
		})
	}

	if err := nc.NotificationRepo.MarkAsRead(userID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Notification not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to mark notification read",
			zap.String("notificationID", notificationID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update notification",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsReadController clears the caller's unread set.
func (nc *NotificationController) MarkAllNotificationsReadController(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   err.Error(),
		})
	}

	if err := nc.NotificationRepo.MarkAllAsRead(userID); err != nil {
		config.Logger.Error("Failed to mark all notifications read",
			zap.String("userID", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update notifications",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// GetUnreadCountController powers the bell badge.
func (nc *NotificationController) GetUnreadCountController(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   err.Error(),
		})
	}

	count, err := nc.NotificationRepo.CountUnread(userID)
	if err != nil {
		config.Logger.Error("Failed to count unread notifications",
			zap.String("userID", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count notifications",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Unread count fetched successfully",
		"data":    fiber.Map{"unread": count},
	})
}
