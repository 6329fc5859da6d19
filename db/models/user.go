package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	ClientRole Role = "client"
	AdminRole  Role = "admin"
)

// User represents portal users with role-based access
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FullName string    `gorm:"not null" json:"full_name"`
	Email    string    `gorm:"unique;not null" json:"email"`
	Phone    *string   `json:"phone"`
	Password string    `json:"-"` // Never include in JSON responses

	Role Role `gorm:"type:varchar(20);not null;default:'client'" json:"role"`

	// Status
	Active      bool       `gorm:"default:true" json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}
