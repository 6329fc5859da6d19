package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	ApplicationSubmittedNotification NotificationType = "application_submitted"
	ApplicationApprovedNotification  NotificationType = "application_approved"
	ApplicationRejectedNotification  NotificationType = "application_rejected"
	CertificateReadyNotification     NotificationType = "certificate_ready"
	AdminNewApplicationNotification  NotificationType = "admin_new_application"
	PaymentVerifiedNotification      NotificationType = "payment_verified"
)

// Notification is a best-effort in-app record; it is never strongly
// consistent with the application it references.
type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ApplicationID *uuid.UUID `gorm:"type:uuid;index" json:"application_id"`

	Type    NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`

	IsRead    bool `gorm:"default:false;index" json:"is_read"`
	EmailSent bool `gorm:"default:false" json:"email_sent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
