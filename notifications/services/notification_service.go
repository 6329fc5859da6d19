package services

import (
	"fmt"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/notifications/repositories"
	"municipal-portal-backend/notifications/tasks"
	websocket "municipal-portal-backend/websocket"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService relays workflow events to users as in-app records,
// websocket pushes and queued emails. Every path is best-effort: a relay
// failure is logged and swallowed, it never fails the triggering
// operation.
type NotificationService struct {
	Repo        repositories.NotificationRepository
	DB          *gorm.DB
	AsynqClient *asynq.Client
	WsHub       *websocket.Hub
}

func NewNotificationService(
	repo repositories.NotificationRepository,
	db *gorm.DB,
	asynqClient *asynq.Client,
	wsHub *websocket.Hub,
) *NotificationService {
	return &NotificationService{
		Repo:        repo,
		DB:          db,
		AsynqClient: asynqClient,
		WsHub:       wsHub,
	}
}

// CreateNotification persists one notification and fans it out. It
// returns nil instead of an error when anything fails.
func (s *NotificationService) CreateNotification(
	userID uuid.UUID,
	applicationID *uuid.UUID,
	nType models.NotificationType,
	title, message, recipientEmail string,
) *models.Notification {
	notification := &models.Notification{
		UserID:        userID,
		ApplicationID: applicationID,
		Type:          nType,
		Title:         title,
		Message:       message,
	}

	if err := s.Repo.CreateNotification(notification); err != nil {
		config.Logger.Error("Failed to persist notification",
			zap.String("userID", userID.String()),
			zap.String("type", string(nType)),
			zap.Error(err))
		return nil
	}

	if s.WsHub != nil {
		s.WsHub.PushToUser(userID.String(), notification)
	}

	if s.AsynqClient != nil && recipientEmail != "" {
		task, err := tasks.NewNotificationEmailTask(tasks.NotificationEmailPayload{
			NotificationID: notification.ID,
			Recipient:      recipientEmail,
			Subject:        title,
			Body:           emailBody(title, message),
		})
		if err == nil {
			_, err = s.AsynqClient.Enqueue(task)
		}
		if err != nil {
			config.Logger.Warn("Failed to enqueue notification email",
				zap.String("recipient", recipientEmail),
				zap.Error(err))
		}
	}

	return notification
}

// NotifyApplicationSubmitted tells the applicant their submission was
// received and announces the new case to every active admin.
func (s *NotificationService) NotifyApplicationSubmitted(app *models.Application) {
	title := fmt.Sprintf("%s Application Received", app.DocumentType.DisplayName())
	message := fmt.Sprintf(
		"Your application %s has been received and is pending review.",
		app.ApplicationCode,
	)
	s.CreateNotification(app.ApplicantID, &app.ID,
		models.ApplicationSubmittedNotification, title, message,
		s.applicantEmail(app))

	adminTitle := "New Application Submitted"
	adminMessage := fmt.Sprintf(
		"Application %s (%s) is waiting for review.",
		app.ApplicationCode, app.DocumentType.DisplayName(),
	)
	for _, admin := range s.activeAdmins() {
		s.CreateNotification(admin.ID, &app.ID,
			models.AdminNewApplicationNotification, adminTitle, adminMessage,
			admin.Email)
	}
}

// NotifyApplicationReviewed tells the applicant the review outcome.
// Rejection messages carry the admin's remarks.
func (s *NotificationService) NotifyApplicationReviewed(app *models.Application) {
	var nType models.NotificationType
	var title, message string

	switch app.Status {
	case models.ApprovedApplication:
		nType = models.ApplicationApprovedNotification
		title = fmt.Sprintf("%s Application Approved", app.DocumentType.DisplayName())
		message = fmt.Sprintf(
			"Your application %s has been approved. The certificate will be issued shortly.",
			app.ApplicationCode,
		)
	case models.RejectedApplication:
		nType = models.ApplicationRejectedNotification
		title = fmt.Sprintf("%s Application Rejected", app.DocumentType.DisplayName())
		message = fmt.Sprintf("Your application %s has been rejected.", app.ApplicationCode)
		if app.AdminRemarks != nil && *app.AdminRemarks != "" {
			message = fmt.Sprintf("%s Reason: %s", message, *app.AdminRemarks)
		}
	default:
		return
	}

	s.CreateNotification(app.ApplicantID, &app.ID, nType, title, message, s.applicantEmail(app))
}

// NotifyCertificateReady tells the applicant their certificate can be
// downloaded.
func (s *NotificationService) NotifyCertificateReady(app *models.Application) {
	title := fmt.Sprintf("%s Ready for Download", app.DocumentType.DisplayName())
	message := fmt.Sprintf(
		"The certificate for application %s has been issued and is ready for download.",
		app.ApplicationCode,
	)
	s.CreateNotification(app.ApplicantID, &app.ID,
		models.CertificateReadyNotification, title, message, s.applicantEmail(app))
}

// NotifyPaymentVerified confirms a payment against the application.
func (s *NotificationService) NotifyPaymentVerified(app *models.Application) {
	title := "Payment Verified"
	message := fmt.Sprintf("Payment for application %s has been verified.", app.ApplicationCode)
	s.CreateNotification(app.ApplicantID, &app.ID,
		models.PaymentVerifiedNotification, title, message, s.applicantEmail(app))
}

// applicantEmail prefers the preloaded association and falls back to a
// lookup. A failed lookup returns "", which skips the email relay.
func (s *NotificationService) applicantEmail(app *models.Application) string {
	if app.Applicant.Email != "" {
		return app.Applicant.Email
	}

	var user models.User
	if err := s.DB.Select("email").First(&user, "id = ?", app.ApplicantID).Error; err != nil {
		config.Logger.Warn("Failed to resolve applicant email",
			zap.String("applicantID", app.ApplicantID.String()),
			zap.Error(err))
		return ""
	}
	return user.Email
}

func (s *NotificationService) activeAdmins() []models.User {
	var admins []models.User
	err := s.DB.Where("role = ? AND active = ?", models.AdminRole, true).Find(&admins).Error
	if err != nil {
		config.Logger.Warn("Failed to list admins for notification", zap.Error(err))
		return nil
	}
	return admins
}

func emailBody(title, message string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #1a5276;">%s</h2>
			<p>%s</p>
			<p style="color: #777; font-size: 12px;">
				This is an automated message from the Municipal Certificate Portal. Please do not reply.
			</p>
		</div>`, title, message)
}
