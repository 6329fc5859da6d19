package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// DocumentType selects which typed form record an application carries.
type DocumentType string

const (
	BirthCertificate     DocumentType = "birth_certificate"
	DeathCertificate     DocumentType = "death_certificate"
	MarriageCertificate  DocumentType = "marriage_certificate"
	TaxationCertificate  DocumentType = "taxation_certificate"
	BPLCertificate       DocumentType = "bpl_certificate"
	NoDuesCertificate    DocumentType = "no_dues_certificate"
	HousingAssessment    DocumentType = "housing_assessment"
	NiradharScheme       DocumentType = "niradhar_scheme"
)

// AllDocumentTypes lists every supported certificate category.
var AllDocumentTypes = []DocumentType{
	BirthCertificate,
	DeathCertificate,
	MarriageCertificate,
	TaxationCertificate,
	BPLCertificate,
	NoDuesCertificate,
	HousingAssessment,
	NiradharScheme,
}

// CodePrefixes map each document type to the prefix embedded in its
// human-readable application code.
var CodePrefixes = map[DocumentType]string{
	BirthCertificate:    "BC",
	DeathCertificate:    "DC",
	MarriageCertificate: "MC",
	TaxationCertificate: "TX",
	BPLCertificate:      "BPL",
	NoDuesCertificate:   "ND",
	HousingAssessment:   "HA",
	NiradharScheme:      "NS",
}

var titleCaser = cases.Title(language.English)

// IsValid reports whether the document type is one of the supported categories.
func (dt DocumentType) IsValid() bool {
	_, ok := CodePrefixes[dt]
	return ok
}

// DisplayName renders the type for notifications and emails,
// e.g. "birth_certificate" -> "Birth Certificate".
func (dt DocumentType) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(string(dt), "_", " "))
}

// ApplicationStatus defines the current state of an application.
type ApplicationStatus string

const (
	PendingApplication              ApplicationStatus = "pending"
	ApprovedApplication             ApplicationStatus = "approved"
	RejectedApplication             ApplicationStatus = "rejected"
	CertificateGeneratedApplication ApplicationStatus = "certificate_generated"
	// CompletedApplication is declared for forward compatibility; no
	// workflow transition currently reaches it.
	CompletedApplication ApplicationStatus = "completed"
)

// statusTransitions is the whole workflow state machine. rejected and
// certificate_generated are terminal; completed has no incoming edge.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	PendingApplication:              {ApprovedApplication, RejectedApplication},
	ApprovedApplication:             {CertificateGeneratedApplication},
	RejectedApplication:             {},
	CertificateGeneratedApplication: {},
	CompletedApplication:            {},
}

// CanTransitionTo reports whether the workflow permits moving to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status.
func (s ApplicationStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

type PaymentStatus string

const (
	PendingPayment  PaymentStatus = "pending"
	PaidPayment     PaymentStatus = "paid"
	FailedPayment   PaymentStatus = "failed"
	RefundedPayment PaymentStatus = "refunded"
)

// PaymentDetails is a denormalized display mirror on the aggregate; the
// Payment row is the authoritative payment-state owner.
type PaymentDetails struct {
	PaymentStatus PaymentStatus    `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	UTRNumber     *string          `json:"utr_number"`
	ReceiptURL    *string          `json:"receipt_url"`
	Amount        *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
}

// UploadedFile is one stored-object descriptor attached to an application.
// Folder is the storage lifecycle stage: unverified, verified or certificate.
type UploadedFile struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`

	FileName         string    `gorm:"not null" json:"file_name"`
	OriginalName     string    `gorm:"not null" json:"original_name"`
	FileKey          string    `gorm:"not null;index" json:"file_key"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	Folder           string    `gorm:"type:varchar(20);not null;index" json:"folder"`
	IsPaymentReceipt bool      `gorm:"default:false" json:"is_payment_receipt"`
	UploadedAt       time.Time `gorm:"not null" json:"uploaded_at"`
}

// GeneratedCertificate is written once, at certificate issuance.
type GeneratedCertificate struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`

	FileName      string    `gorm:"not null" json:"file_name"`
	FileKey       string    `gorm:"not null" json:"file_key"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	DownloadCount int       `gorm:"default:0" json:"download_count"`
	IssuedBy      uuid.UUID `gorm:"type:uuid;not null" json:"issued_by"`
	IssuedAt      time.Time `gorm:"not null" json:"issued_at"`
}

// Application is the case record tying an applicant, a document-type
// discriminator, the status state machine, a polymorphic form-data
// reference, file references and payment/certificate metadata.
type Application struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationCode string    `gorm:"unique;not null;index" json:"application_code"`

	ApplicantID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"applicant_id"`
	DocumentType DocumentType      `gorm:"type:varchar(30);not null;index" json:"document_type"`
	Status       ApplicationStatus `gorm:"type:varchar(30);default:'pending';index" json:"status"`

	// Polymorphic form-data reference: the discriminator above determines
	// which typed table FormDataID points into.
	FormDataID    uuid.UUID `gorm:"type:uuid;not null" json:"form_data_id"`
	FormDataTable string    `gorm:"type:varchar(50);not null" json:"form_data_table"`

	PaymentDetails PaymentDetails `gorm:"embedded;embeddedPrefix:payment_" json:"payment_details"`

	// Review tracking, set once
	ReviewedAt   *time.Time `json:"reviewed_at"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	AdminRemarks *string    `gorm:"type:text" json:"admin_remarks"`

	// Relationships
	Applicant     User                  `gorm:"foreignKey:ApplicantID" json:"applicant"`
	UploadedFiles []UploadedFile        `gorm:"foreignKey:ApplicationID" json:"uploaded_files,omitempty"`
	Certificate   *GeneratedCertificate `gorm:"foreignKey:ApplicationID" json:"certificate,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReceiptFile returns the descriptor flagged as the payment receipt, if any.
func (a *Application) ReceiptFile() *UploadedFile {
	for i := range a.UploadedFiles {
		if a.UploadedFiles[i].IsPaymentReceipt {
			return &a.UploadedFiles[i]
		}
	}
	return nil
}

func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

func (f *UploadedFile) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	return
}

func (gc *GeneratedCertificate) BeforeCreate(tx *gorm.DB) (err error) {
	if gc.ID == uuid.Nil {
		gc.ID = uuid.New()
	}
	return
}
