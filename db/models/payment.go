package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	// ManualReceiptPayment is a bank transfer proven by an uploaded
	// receipt image plus a UTR number.
	ManualReceiptPayment PaymentMethod = "manual_receipt"
	// GatewayPayment is an online payment verified through the gateway's
	// signature check.
	GatewayPayment PaymentMethod = "gateway"
)

// Payment is the single authoritative payment-state owner. Both payment
// methods live on one discriminated row; Application.PaymentDetails only
// mirrors display fields.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationID *uuid.UUID `gorm:"type:uuid;index" json:"application_id,omitempty"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`

	Method PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`

	Amount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status   PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`

	ReceiptNumber string `gorm:"uniqueIndex;not null" json:"receipt_number"`

	// Gateway method fields
	OrderID           *string `gorm:"uniqueIndex" json:"order_id,omitempty"`
	GatewayPaymentID  *string `gorm:"index" json:"gateway_payment_id,omitempty"`
	SignatureVerified bool    `gorm:"default:false" json:"signature_verified"`

	// Manual receipt method fields
	UTRNumber      *string `gorm:"index" json:"utr_number,omitempty"`
	ReceiptFileKey *string `json:"receipt_file_key,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	// Audit fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ReceiptNumber == "" {
		p.ReceiptNumber = fmt.Sprintf("RCT-%s", uuid.NewString()[0:8])
	}
	return
}
