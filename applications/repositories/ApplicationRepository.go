package repositories

import (
	"errors"
	"fmt"
	"strings"

	"municipal-portal-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrFileNotFound        = errors.New("uploaded file not found")
	ErrAlreadyReviewed     = errors.New("application already reviewed")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

type ApplicationRepository interface {
	CreateWithFormData(app *models.Application, form models.FormRecord) (*models.Application, error)
	GetByID(id uuid.UUID) (*models.Application, error)
	GetFormData(app *models.Application) (models.FormRecord, error)
	GetUserApplications(userID uuid.UUID, pageSize, offset int) ([]models.Application, int64, error)
	GetFilteredApplications(pageSize, offset int, filters map[string]string) ([]models.Application, int64, error)
	ReviewApplication(id uuid.UUID, next models.ApplicationStatus, remarks string, reviewerID uuid.UUID) (*models.Application, error)
	AttachCertificate(id uuid.UUID, cert *models.GeneratedCertificate) (*models.Application, error)
	UpdateFileLocation(fileID uuid.UUID, newKey, folder string) error
	GetFileByID(applicationID, fileID uuid.UUID) (*models.UploadedFile, error)
	IncrementCertificateDownloads(certificateID uuid.UUID) error
	UpdatePaymentDetails(id uuid.UUID, details models.PaymentDetails) error
}

type applicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{DB: db}
}

// CreateWithFormData persists the aggregate and its paired typed form
// record inside one transaction, so a crash between the two writes can
// never leave an orphan.
func (r *applicationRepository) CreateWithFormData(app *models.Application, form models.FormRecord) (*models.Application, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if app.ID == uuid.Nil {
			app.ID = uuid.New()
		}
		form.SetApplicationID(app.ID)

		if err := tx.Create(form).Error; err != nil {
			return fmt.Errorf("failed to create form record: %w", err)
		}

		app.FormDataID = form.RecordID()
		app.FormDataTable = form.TableName()

		if err := tx.Create(app).Error; err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) GetByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.DB.
		Preload("UploadedFiles").
		Preload("Certificate").
		Preload("Applicant").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetFormData resolves the polymorphic reference: the FormDataTable
// discriminator selects which typed table to query.
func (r *applicationRepository) GetFormData(app *models.Application) (models.FormRecord, error) {
	var record models.FormRecord

	switch app.FormDataTable {
	case (models.BirthCertificateForm{}).TableName():
		record = &models.BirthCertificateForm{}
	case (models.DeathCertificateForm{}).TableName():
		record = &models.DeathCertificateForm{}
	case (models.MarriageCertificateForm{}).TableName():
		record = &models.MarriageCertificateForm{}
	case (models.TaxationCertificateForm{}).TableName():
		record = &models.TaxationCertificateForm{}
	case (models.BPLCertificateForm{}).TableName():
		record = &models.BPLCertificateForm{}
	case (models.NoDuesCertificateForm{}).TableName():
		record = &models.NoDuesCertificateForm{}
	case (models.HousingAssessmentForm{}).TableName():
		record = &models.HousingAssessmentForm{}
	case (models.NiradharSchemeForm{}).TableName():
		record = &models.NiradharSchemeForm{}
	default:
		return nil, fmt.Errorf("unknown form data table: %s", app.FormDataTable)
	}

	err := r.DB.Table(app.FormDataTable).First(record, "id = ?", app.FormDataID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load form data: %w", err)
	}
	return record, nil
}

func (r *applicationRepository) GetUserApplications(userID uuid.UUID, pageSize, offset int) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	db := r.DB.Model(&models.Application{}).Where("applicant_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Limit(pageSize).Offset(offset).Order("created_at desc").
		Preload("UploadedFiles").
		Preload("Certificate").
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// GetFilteredApplications pages the admin listing. The total is counted
// from the same filtered chain the page query uses.
func (r *applicationRepository) GetFilteredApplications(pageSize, offset int, filters map[string]string) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	db := r.DB.Model(&models.Application{})

	for key, value := range filters {
		switch key {
		case "status":
			db = db.Where("status = ?", strings.ToLower(value))
		case "document_type":
			db = db.Where("document_type = ?", strings.ToLower(value))
		case "applicant_id":
			db = db.Where("applicant_id = ?", value)
		case "start_date":
			db = db.Where("created_at >= ?", value)
		case "end_date":
			db = db.Where("created_at <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Limit(pageSize).Offset(offset).Order("created_at desc").
		Preload("UploadedFiles").
		Preload("Certificate").
		Preload("Applicant").
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ReviewApplication applies the pending -> approved|rejected transition
// under a row lock. Any status other than pending rejects the review.
func (r *applicationRepository) ReviewApplication(id uuid.UUID, next models.ApplicationStatus, remarks string, reviewerID uuid.UUID) (*models.Application, error) {
	var app models.Application

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&app, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if app.Status != models.PendingApplication {
			return ErrAlreadyReviewed
		}
		if !app.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		now := tx.NowFunc()
		updates := map[string]interface{}{
			"status":        next,
			"reviewed_at":   now,
			"reviewed_by":   reviewerID,
			"admin_remarks": remarks,
		}
		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update review fields: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// AttachCertificate stores the issued certificate descriptor and moves
// the application to certificate_generated. Legal only from approved.
func (r *applicationRepository) AttachCertificate(id uuid.UUID, cert *models.GeneratedCertificate) (*models.Application, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&app, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if !app.Status.CanTransitionTo(models.CertificateGeneratedApplication) {
			return ErrInvalidTransition
		}

		cert.ApplicationID = app.ID
		if err := tx.Create(cert).Error; err != nil {
			return fmt.Errorf("failed to store certificate descriptor: %w", err)
		}

		if err := tx.Model(&app).Update("status", models.CertificateGeneratedApplication).Error; err != nil {
			return fmt.Errorf("failed to update application status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *applicationRepository) UpdateFileLocation(fileID uuid.UUID, newKey, folder string) error {
	result := r.DB.Model(&models.UploadedFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{"file_key": newKey, "folder": folder})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *applicationRepository) GetFileByID(applicationID, fileID uuid.UUID) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := r.DB.First(&file, "id = ? AND application_id = ?", fileID, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *applicationRepository) IncrementCertificateDownloads(certificateID uuid.UUID) error {
	return r.DB.Model(&models.GeneratedCertificate{}).
		Where("id = ?", certificateID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *applicationRepository) UpdatePaymentDetails(id uuid.UUID, details models.PaymentDetails) error {
	result := r.DB.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_payment_status": details.PaymentStatus,
			"payment_utr_number":     details.UTRNumber,
			"payment_receipt_url":    details.ReceiptURL,
			"payment_amount":         details.Amount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
