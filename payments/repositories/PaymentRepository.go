package repositories

import (
	"errors"

	"municipal-portal-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	GetByOrderID(orderID string) (*models.Payment, error)
	GetByApplicationID(applicationID uuid.UUID) ([]models.Payment, error)
	AttachOrder(paymentID uuid.UUID, orderID string) error
	MarkVerified(paymentID uuid.UUID, gatewayPaymentID string) error
	MarkFailed(paymentID uuid.UUID, reason string) error
}

type paymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) CreatePayment(payment *models.Payment) error {
	return r.DB.Create(payment).Error
}

func (r *paymentRepository) GetByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.DB.First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetByApplicationID(applicationID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB.Where("application_id = ?", applicationID).
		Order("created_at desc").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) AttachOrder(paymentID uuid.UUID, orderID string) error {
	result := r.DB.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("order_id", orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) MarkVerified(paymentID uuid.UUID, gatewayPaymentID string) error {
	result := r.DB.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":             models.PaidPayment,
			"gateway_payment_id": gatewayPaymentID,
			"signature_verified": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) MarkFailed(paymentID uuid.UUID, reason string) error {
	result := r.DB.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status": models.FailedPayment,
			"notes":  reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
