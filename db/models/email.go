package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog records every outbound email attempt, successful or not.
type EmailLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Recipient string    `gorm:"not null;index" json:"recipient"`
	Subject   string    `gorm:"not null" json:"subject"`
	Body      string    `gorm:"type:text" json:"body"`
	Success   bool      `gorm:"default:false" json:"success"`
	ErrorText *string   `gorm:"type:text" json:"error_text"`
	SentAt    time.Time `gorm:"not null" json:"sent_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	return
}
