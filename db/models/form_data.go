package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormRecord is implemented by every typed form-data model so the
// workflow can persist whichever variant the document type selects
// through one interface.
type FormRecord interface {
	TableName() string
	SetApplicationID(id uuid.UUID)
	RecordID() uuid.UUID
}

// FormBase carries the columns shared by all form-data tables: the uuid
// primary key and the back-reference to the owning application.
type FormBase struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *FormBase) SetApplicationID(id uuid.UUID) { b.ApplicationID = id }
func (b *FormBase) RecordID() uuid.UUID           { return b.ID }

func (b *FormBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

type BirthCertificateForm struct {
	FormBase

	ChildFirstName string         `gorm:"not null" json:"child_first_name"`
	ChildLastName  string         `gorm:"not null" json:"child_last_name"`
	Gender         string         `gorm:"type:varchar(10);not null" json:"gender"`
	DateOfBirth    datatypes.Date `gorm:"not null" json:"date_of_birth"`
	PlaceOfBirth   string         `gorm:"not null" json:"place_of_birth"`
	FatherName     string         `gorm:"not null" json:"father_name"`
	MotherName     string         `gorm:"not null" json:"mother_name"`
	FatherAadhaar  string         `gorm:"type:varchar(12);not null" json:"father_aadhaar"`
	MotherAadhaar  *string        `gorm:"type:varchar(12)" json:"mother_aadhaar"`
	Address        string         `gorm:"type:text;not null" json:"address"`
	MobileNumber   string         `gorm:"type:varchar(10);not null" json:"mobile_number"`
	Email          *string        `json:"email"`
}

func (BirthCertificateForm) TableName() string { return "birth_certificate_forms" }

type DeathCertificateForm struct {
	FormBase

	DeceasedName       string         `gorm:"not null" json:"deceased_name"`
	Gender             string         `gorm:"type:varchar(10);not null" json:"gender"`
	DateOfDeath        datatypes.Date `gorm:"not null" json:"date_of_death"`
	PlaceOfDeath       string         `gorm:"not null" json:"place_of_death"`
	CauseOfDeath       *string        `json:"cause_of_death"`
	AgeAtDeath         int            `json:"age_at_death"`
	ApplicantName      string         `gorm:"not null" json:"applicant_name"`
	RelationToDeceased string         `gorm:"not null" json:"relation_to_deceased"`
	Address            string         `gorm:"type:text;not null" json:"address"`
	MobileNumber       string         `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber      string         `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
}

func (DeathCertificateForm) TableName() string { return "death_certificate_forms" }

type MarriageCertificateForm struct {
	FormBase

	GroomName        string         `gorm:"not null" json:"groom_name"`
	GroomDateOfBirth datatypes.Date `gorm:"not null" json:"groom_date_of_birth"`
	GroomAddress     string         `gorm:"type:text;not null" json:"groom_address"`
	GroomAadhaar     string         `gorm:"type:varchar(12);not null" json:"groom_aadhaar"`
	BrideName        string         `gorm:"not null" json:"bride_name"`
	BrideDateOfBirth datatypes.Date `gorm:"not null" json:"bride_date_of_birth"`
	BrideAddress     string         `gorm:"type:text;not null" json:"bride_address"`
	BrideAadhaar     string         `gorm:"type:varchar(12);not null" json:"bride_aadhaar"`
	MarriageDate     datatypes.Date `gorm:"not null" json:"marriage_date"`
	MarriagePlace    string         `gorm:"not null" json:"marriage_place"`
	WitnessOneName   string         `gorm:"not null" json:"witness_one_name"`
	WitnessTwoName   string         `gorm:"not null" json:"witness_two_name"`
	MobileNumber     string         `gorm:"type:varchar(10);not null" json:"mobile_number"`
	Email            *string        `json:"email"`
}

func (MarriageCertificateForm) TableName() string { return "marriage_certificate_forms" }

type TaxationCertificateForm struct {
	FormBase

	OwnerName      string          `gorm:"not null" json:"owner_name"`
	PropertyNumber string          `gorm:"not null" json:"property_number"`
	WardNumber     string          `gorm:"not null" json:"ward_number"`
	PropertyKind   string          `gorm:"not null" json:"property_kind"`
	AssessedValue  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"assessed_value"`
	TaxYear        string          `gorm:"type:varchar(9);not null" json:"tax_year"`
	Address        string          `gorm:"type:text;not null" json:"address"`
	MobileNumber   string          `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber  string          `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
}

func (TaxationCertificateForm) TableName() string { return "taxation_certificate_forms" }

type BPLCertificateForm struct {
	FormBase

	ApplicantName    string          `gorm:"not null" json:"applicant_name"`
	FamilyMembers    int             `gorm:"not null" json:"family_members"`
	AnnualIncome     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"annual_income"`
	RationCardNumber *string         `json:"ration_card_number"`
	Occupation       string          `gorm:"not null" json:"occupation"`
	Address          string          `gorm:"type:text;not null" json:"address"`
	MobileNumber     string          `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber    string          `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
}

func (BPLCertificateForm) TableName() string { return "bpl_certificate_forms" }

type NoDuesCertificateForm struct {
	FormBase

	ApplicantName  string  `gorm:"not null" json:"applicant_name"`
	PropertyNumber string  `gorm:"not null" json:"property_number"`
	WardNumber     string  `gorm:"not null" json:"ward_number"`
	Purpose        string  `gorm:"not null" json:"purpose"`
	Address        string  `gorm:"type:text;not null" json:"address"`
	MobileNumber   string  `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber  string  `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
	Email          *string `json:"email"`
}

func (NoDuesCertificateForm) TableName() string { return "no_dues_certificate_forms" }

type HousingAssessmentForm struct {
	FormBase

	OwnerName        string          `gorm:"not null" json:"owner_name"`
	PropertyNumber   string          `gorm:"not null" json:"property_number"`
	WardNumber       string          `gorm:"not null" json:"ward_number"`
	PlotArea         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"plot_area"`
	BuildingType     string          `gorm:"not null" json:"building_type"`
	ConstructionYear int             `gorm:"not null" json:"construction_year"`
	Address          string          `gorm:"type:text;not null" json:"address"`
	MobileNumber     string          `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber    string          `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
}

func (HousingAssessmentForm) TableName() string { return "housing_assessment_forms" }

type NiradharSchemeForm struct {
	FormBase

	ApplicantName     string          `gorm:"not null" json:"applicant_name"`
	DateOfBirth       datatypes.Date  `gorm:"not null" json:"date_of_birth"`
	Gender            string          `gorm:"type:varchar(10);not null" json:"gender"`
	GuardianName      *string         `json:"guardian_name"`
	MonthlyIncome     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_income"`
	BankAccountNumber string          `gorm:"not null" json:"bank_account_number"`
	IFSCCode          string          `gorm:"type:varchar(11);not null" json:"ifsc_code"`
	Address           string          `gorm:"type:text;not null" json:"address"`
	MobileNumber      string          `gorm:"type:varchar(10);not null" json:"mobile_number"`
	AadhaarNumber     string          `gorm:"type:varchar(12);not null" json:"aadhaar_number"`
}

func (NiradharSchemeForm) TableName() string { return "niradhar_scheme_forms" }
