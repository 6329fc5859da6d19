package services

import (
	"errors"
	"testing"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	config.Logger = zap.NewNop()
}

type fakeNotificationRepo struct {
	failCreate bool
	created    []*models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if f.failCreate {
		return errors.New("connection refused")
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetUserNotifications(userID uuid.UUID, pageSize, offset int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepo) MarkAsRead(userID, notificationID uuid.UUID) error { return nil }
func (f *fakeNotificationRepo) MarkAllAsRead(userID uuid.UUID) error              { return nil }
func (f *fakeNotificationRepo) CountUnread(userID uuid.UUID) (int64, error)       { return 0, nil }
func (f *fakeNotificationRepo) MarkEmailSent(notificationID uuid.UUID) error      { return nil }

func reviewedApp(status models.ApplicationStatus, remarks string) *models.Application {
	app := &models.Application{
		ID:              uuid.New(),
		ApplicationCode: "BC-123456-abc123",
		ApplicantID:     uuid.New(),
		DocumentType:    models.BirthCertificate,
		Status:          status,
		Applicant:       models.User{Email: "citizen@example.com"},
	}
	if remarks != "" {
		app.AdminRemarks = &remarks
	}
	return app
}

func TestCreateNotificationPersists(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{Repo: repo}

	userID := uuid.New()
	appID := uuid.New()
	n := svc.CreateNotification(userID, &appID,
		models.ApplicationSubmittedNotification, "Received", "Your application is pending.", "")

	require.NotNil(t, n)
	require.Len(t, repo.created, 1)
	require.Equal(t, userID, n.UserID)
	require.Equal(t, &appID, n.ApplicationID)
	require.Equal(t, models.ApplicationSubmittedNotification, n.Type)
	require.False(t, n.IsRead)
	require.False(t, n.EmailSent)
}

func TestCreateNotificationSwallowsPersistenceFailure(t *testing.T) {
	repo := &fakeNotificationRepo{failCreate: true}
	svc := &NotificationService{Repo: repo}

	n := svc.CreateNotification(uuid.New(), nil,
		models.ApplicationSubmittedNotification, "Received", "Your application is pending.", "")

	require.Nil(t, n)
	require.Empty(t, repo.created)
}

func TestNotifyApplicationReviewedApproved(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{Repo: repo}

	svc.NotifyApplicationReviewed(reviewedApp(models.ApprovedApplication, ""))

	require.Len(t, repo.created, 1)
	require.Equal(t, models.ApplicationApprovedNotification, repo.created[0].Type)
	require.Contains(t, repo.created[0].Message, "BC-123456-abc123")
}

func TestNotifyApplicationReviewedRejectionCarriesRemarks(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{Repo: repo}

	svc.NotifyApplicationReviewed(reviewedApp(models.RejectedApplication, "Aadhaar number does not match records"))

	require.Len(t, repo.created, 1)
	require.Equal(t, models.ApplicationRejectedNotification, repo.created[0].Type)
	require.Contains(t, repo.created[0].Message, "Aadhaar number does not match records")
}

func TestNotifyApplicationReviewedIgnoresPending(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{Repo: repo}

	svc.NotifyApplicationReviewed(reviewedApp(models.PendingApplication, ""))

	require.Empty(t, repo.created)
}

func TestNotifyCertificateReady(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{Repo: repo}

	svc.NotifyCertificateReady(reviewedApp(models.CertificateGeneratedApplication, ""))

	require.Len(t, repo.created, 1)
	require.Equal(t, models.CertificateReadyNotification, repo.created[0].Type)
	require.Contains(t, repo.created[0].Title, "Birth Certificate")
}
