package repositories

import (
	"errors"

	"municipal-portal-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetUserNotifications(userID uuid.UUID, pageSize, offset int) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
	CountUnread(userID uuid.UUID) (int64, error)
	MarkEmailSent(notificationID uuid.UUID) error
}

type notificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(notification *models.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *notificationRepository) GetUserNotifications(userID uuid.UUID, pageSize, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkAsRead(userID, notificationID uuid.UUID) error {
	result := r.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(userID uuid.UUID) error {
	return r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkEmailSent(notificationID uuid.UUID) error {
	return r.DB.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("email_sent", true).Error
}
