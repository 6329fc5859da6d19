package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/notifications/repositories"
	"municipal-portal-backend/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TypeNotificationEmail = "notification:email"

// NotificationEmailPayload is the queued unit of email work. The body is
// rendered at enqueue time so the worker needs no application context.
type NotificationEmailPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
}

func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeNotificationEmail, data, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// EmailTaskHandler processes queued notification emails: send, log the
// attempt, flip the notification's email_sent flag on success.
type EmailTaskHandler struct {
	DB               *gorm.DB
	NotificationRepo repositories.NotificationRepository
}

func NewEmailTaskHandler(db *gorm.DB, notificationRepo repositories.NotificationRepository) *EmailTaskHandler {
	return &EmailTaskHandler{DB: db, NotificationRepo: notificationRepo}
}

func (h *EmailTaskHandler) HandleNotificationEmail(ctx context.Context, t *asynq.Task) error {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}

	sendErr := utils.SendEmail(payload.Recipient, payload.Subject, payload.Body)

	logEntry := models.EmailLog{
		Recipient: payload.Recipient,
		Subject:   payload.Subject,
		Body:      payload.Body,
		Success:   sendErr == nil,
		SentAt:    time.Now(),
	}
	if sendErr != nil {
		errText := sendErr.Error()
		logEntry.ErrorText = &errText
	}
	if err := h.DB.WithContext(ctx).Create(&logEntry).Error; err != nil {
		config.Logger.Warn("Failed to write email log", zap.Error(err))
	}

	if sendErr != nil {
		config.Logger.Error("Failed to send notification email",
			zap.String("recipient", payload.Recipient),
			zap.String("subject", payload.Subject),
			zap.Error(sendErr))
		return sendErr
	}

	if err := h.NotificationRepo.MarkEmailSent(payload.NotificationID); err != nil {
		config.Logger.Warn("Failed to flag notification email as sent",
			zap.String("notificationID", payload.NotificationID.String()), zap.Error(err))
	}

	config.Logger.Info("Notification email sent",
		zap.String("recipient", payload.Recipient),
		zap.String("subject", payload.Subject))
	return nil
}

// RegisterHandlers binds every task type this package owns onto the mux.
func (h *EmailTaskHandler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeNotificationEmail, h.HandleNotificationEmail)
}
