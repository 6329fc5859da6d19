package services

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"municipal-portal-backend/db/models"
	"municipal-portal-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ValidationError identifies the first violated rule of a submission.
// Always client-facing, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	mobileRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	aadhaarRegex = regexp.MustCompile(`^[0-9]{12}$`)
	emailRegex   = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	ifscRegex    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

	minGroomAge = 21
	minBrideAge = 18
)

// ValidateSubmission enforces required-field presence, format rules and
// domain rules for one document type, failing fast on the first
// violation. On success it returns the normalized typed form record with
// dates converted to canonical date values and numeric strings parsed.
func ValidateSubmission(docType models.DocumentType, fields map[string]string) (models.FormRecord, error) {
	switch docType {
	case models.BirthCertificate:
		return validateBirthForm(fields)
	case models.DeathCertificate:
		return validateDeathForm(fields)
	case models.MarriageCertificate:
		return validateMarriageForm(fields)
	case models.TaxationCertificate:
		return validateTaxationForm(fields)
	case models.BPLCertificate:
		return validateBPLForm(fields)
	case models.NoDuesCertificate:
		return validateNoDuesForm(fields)
	case models.HousingAssessment:
		return validateHousingForm(fields)
	case models.NiradharScheme:
		return validateNiradharForm(fields)
	default:
		return nil, &ValidationError{Field: "documentType", Reason: fmt.Sprintf("unsupported document type %q", docType)}
	}
}

//
// Field helpers. Each returns the first violated rule as *ValidationError.
//

func requiredField(fields map[string]string, name string) (string, error) {
	value := strings.TrimSpace(fields[name])
	if value == "" {
		return "", &ValidationError{Field: name, Reason: "is required"}
	}
	return value, nil
}

func optionalField(fields map[string]string, name string) *string {
	value := strings.TrimSpace(fields[name])
	if value == "" {
		return nil
	}
	return &value
}

func requiredMobile(fields map[string]string, name string) (string, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return "", err
	}
	if !mobileRegex.MatchString(value) {
		return "", &ValidationError{Field: name, Reason: "must be a 10-digit mobile number"}
	}
	return value, nil
}

func requiredAadhaar(fields map[string]string, name string) (string, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return "", err
	}
	if !aadhaarRegex.MatchString(value) {
		return "", &ValidationError{Field: name, Reason: "must be a 12-digit Aadhaar number"}
	}
	return value, nil
}

func optionalAadhaar(fields map[string]string, name string) (*string, error) {
	value := optionalField(fields, name)
	if value == nil {
		return nil, nil
	}
	if !aadhaarRegex.MatchString(*value) {
		return nil, &ValidationError{Field: name, Reason: "must be a 12-digit Aadhaar number"}
	}
	return value, nil
}

func optionalEmail(fields map[string]string, name string) (*string, error) {
	value := optionalField(fields, name)
	if value == nil {
		return nil, nil
	}
	lowered := strings.ToLower(*value)
	if !emailRegex.MatchString(lowered) {
		return nil, &ValidationError{Field: name, Reason: "must be a valid email address"}
	}
	return &lowered, nil
}

func requiredDate(fields map[string]string, name string) (time.Time, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := utils.ParseFlexibleDate(value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: name, Reason: "must be a date in dd-mm-yyyy or yyyy-mm-dd format"}
	}
	return parsed, nil
}

func requiredPastDate(fields map[string]string, name string) (time.Time, error) {
	parsed, err := requiredDate(fields, name)
	if err != nil {
		return time.Time{}, err
	}
	if parsed.After(utils.Today()) {
		return time.Time{}, &ValidationError{Field: name, Reason: "cannot be in the future"}
	}
	return parsed, nil
}

func requiredDecimal(fields map[string]string, name string) (decimal.Decimal, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return decimal.Zero, err
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: name, Reason: "must be a number"}
	}
	if parsed.IsNegative() {
		return decimal.Zero, &ValidationError{Field: name, Reason: "cannot be negative"}
	}
	return parsed, nil
}

func requiredInt(fields map[string]string, name string) (int, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: name, Reason: "must be a whole number"}
	}
	if parsed < 0 {
		return 0, &ValidationError{Field: name, Reason: "cannot be negative"}
	}
	return parsed, nil
}

func requiredGender(fields map[string]string, name string) (string, error) {
	value, err := requiredField(fields, name)
	if err != nil {
		return "", err
	}
	lowered := strings.ToLower(value)
	switch lowered {
	case "male", "female", "other":
		return lowered, nil
	}
	return "", &ValidationError{Field: name, Reason: "must be one of male, female or other"}
}

//
// Per-type validators. Each returns the normalized gorm-persistable record.
//

func validateBirthForm(fields map[string]string) (models.FormRecord, error) {
	childFirstName, err := requiredField(fields, "childFirstName")
	if err != nil {
		return nil, err
	}
	childLastName, err := requiredField(fields, "childLastName")
	if err != nil {
		return nil, err
	}
	gender, err := requiredGender(fields, "gender")
	if err != nil {
		return nil, err
	}
	dateOfBirth, err := requiredPastDate(fields, "dateOfBirth")
	if err != nil {
		return nil, err
	}
	placeOfBirth, err := requiredField(fields, "placeOfBirth")
	if err != nil {
		return nil, err
	}
	fatherName, err := requiredField(fields, "fatherName")
	if err != nil {
		return nil, err
	}
	motherName, err := requiredField(fields, "motherName")
	if err != nil {
		return nil, err
	}
	fatherAadhaar, err := requiredAadhaar(fields, "fatherAadhaar")
	if err != nil {
		return nil, err
	}
	motherAadhaar, err := optionalAadhaar(fields, "motherAadhaar")
	if err != nil {
		return nil, err
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(fields, "email")
	if err != nil {
		return nil, err
	}

	return &models.BirthCertificateForm{
		ChildFirstName: childFirstName,
		ChildLastName:  childLastName,
		Gender:         gender,
		DateOfBirth:    datatypes.Date(dateOfBirth),
		PlaceOfBirth:   placeOfBirth,
		FatherName:     fatherName,
		MotherName:     motherName,
		FatherAadhaar:  fatherAadhaar,
		MotherAadhaar:  motherAadhaar,
		Address:        address,
		MobileNumber:   mobile,
		Email:          email,
	}, nil
}

func validateDeathForm(fields map[string]string) (models.FormRecord, error) {
	deceasedName, err := requiredField(fields, "deceasedName")
	if err != nil {
		return nil, err
	}
	gender, err := requiredGender(fields, "gender")
	if err != nil {
		return nil, err
	}
	dateOfDeath, err := requiredPastDate(fields, "dateOfDeath")
	if err != nil {
		return nil, err
	}
	placeOfDeath, err := requiredField(fields, "placeOfDeath")
	if err != nil {
		return nil, err
	}
	ageAtDeath, err := requiredInt(fields, "ageAtDeath")
	if err != nil {
		return nil, err
	}
	applicantName, err := requiredField(fields, "applicantName")
	if err != nil {
		return nil, err
	}
	relation, err := requiredField(fields, "relationToDeceased")
	if err != nil {
		return nil, err
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}

	return &models.DeathCertificateForm{
		DeceasedName:       deceasedName,
		Gender:             gender,
		DateOfDeath:        datatypes.Date(dateOfDeath),
		PlaceOfDeath:       placeOfDeath,
		CauseOfDeath:       optionalField(fields, "causeOfDeath"),
		AgeAtDeath:         ageAtDeath,
		ApplicantName:      applicantName,
		RelationToDeceased: relation,
		Address:            address,
		MobileNumber:       mobile,
		AadhaarNumber:      aadhaar,
	}, nil
}

func validateMarriageForm(fields map[string]string) (models.FormRecord, error) {
	groomName, err := requiredField(fields, "groomName")
	if err != nil {
		return nil, err
	}
	groomDOB, err := requiredPastDate(fields, "groomDateOfBirth")
	if err != nil {
		return nil, err
	}
	groomAddress, err := requiredField(fields, "groomAddress")
	if err != nil {
		return nil, err
	}
	groomAadhaar, err := requiredAadhaar(fields, "groomAadhaar")
	if err != nil {
		return nil, err
	}
	brideName, err := requiredField(fields, "brideName")
	if err != nil {
		return nil, err
	}
	brideDOB, err := requiredPastDate(fields, "brideDateOfBirth")
	if err != nil {
		return nil, err
	}
	brideAddress, err := requiredField(fields, "brideAddress")
	if err != nil {
		return nil, err
	}
	brideAadhaar, err := requiredAadhaar(fields, "brideAadhaar")
	if err != nil {
		return nil, err
	}
	marriageDate, err := requiredPastDate(fields, "marriageDate")
	if err != nil {
		return nil, err
	}
	marriagePlace, err := requiredField(fields, "marriagePlace")
	if err != nil {
		return nil, err
	}
	witnessOne, err := requiredField(fields, "witnessOneName")
	if err != nil {
		return nil, err
	}
	witnessTwo, err := requiredField(fields, "witnessTwoName")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(fields, "email")
	if err != nil {
		return nil, err
	}

	// Minimum marriage ages, measured at the marriage date.
	if utils.YearsBetween(groomDOB, marriageDate) < minGroomAge {
		return nil, &ValidationError{Field: "groomDateOfBirth", Reason: fmt.Sprintf("groom must be at least %d years old at marriage", minGroomAge)}
	}
	if utils.YearsBetween(brideDOB, marriageDate) < minBrideAge {
		return nil, &ValidationError{Field: "brideDateOfBirth", Reason: fmt.Sprintf("bride must be at least %d years old at marriage", minBrideAge)}
	}

	return &models.MarriageCertificateForm{
		GroomName:        groomName,
		GroomDateOfBirth: datatypes.Date(groomDOB),
		GroomAddress:     groomAddress,
		GroomAadhaar:     groomAadhaar,
		BrideName:        brideName,
		BrideDateOfBirth: datatypes.Date(brideDOB),
		BrideAddress:     brideAddress,
		BrideAadhaar:     brideAadhaar,
		MarriageDate:     datatypes.Date(marriageDate),
		MarriagePlace:    marriagePlace,
		WitnessOneName:   witnessOne,
		WitnessTwoName:   witnessTwo,
		MobileNumber:     mobile,
		Email:            email,
	}, nil
}

func validateTaxationForm(fields map[string]string) (models.FormRecord, error) {
	ownerName, err := requiredField(fields, "ownerName")
	if err != nil {
		return nil, err
	}
	propertyNumber, err := requiredField(fields, "propertyNumber")
	if err != nil {
		return nil, err
	}
	wardNumber, err := requiredField(fields, "wardNumber")
	if err != nil {
		return nil, err
	}
	propertyKind, err := requiredField(fields, "propertyKind")
	if err != nil {
		return nil, err
	}
	assessedValue, err := requiredDecimal(fields, "assessedValue")
	if err != nil {
		return nil, err
	}
	taxYear, err := requiredField(fields, "taxYear")
	if err != nil {
		return nil, err
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}

	return &models.TaxationCertificateForm{
		OwnerName:      ownerName,
		PropertyNumber: propertyNumber,
		WardNumber:     wardNumber,
		PropertyKind:   propertyKind,
		AssessedValue:  assessedValue,
		TaxYear:        taxYear,
		Address:        address,
		MobileNumber:   mobile,
		AadhaarNumber:  aadhaar,
	}, nil
}

func validateBPLForm(fields map[string]string) (models.FormRecord, error) {
	applicantName, err := requiredField(fields, "applicantName")
	if err != nil {
		return nil, err
	}
	familyMembers, err := requiredInt(fields, "familyMembers")
	if err != nil {
		return nil, err
	}
	if familyMembers < 1 {
		return nil, &ValidationError{Field: "familyMembers", Reason: "must be at least 1"}
	}
	annualIncome, err := requiredDecimal(fields, "annualIncome")
	if err != nil {
		return nil, err
	}
	occupation, err := requiredField(fields, "occupation")
	if err != nil {
		return nil, err
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}

	return &models.BPLCertificateForm{
		ApplicantName:    applicantName,
		FamilyMembers:    familyMembers,
		AnnualIncome:     annualIncome,
		RationCardNumber: optionalField(fields, "rationCardNumber"),
		Occupation:       occupation,
		Address:          address,
		MobileNumber:     mobile,
		AadhaarNumber:    aadhaar,
	}, nil
}

func validateNoDuesForm(fields map[string]string) (models.FormRecord, error) {
	applicantName, err := requiredField(fields, "applicantName")
	if err != nil {
		return nil, err
	}
	propertyNumber, err := requiredField(fields, "propertyNumber")
	if err != nil {
		return nil, err
	}
	wardNumber, err := requiredField(fields, "wardNumber")
	if err != nil {
		return nil, err
	}
	purpose, err := requiredField(fields, "purpose")
	if err != nil {
		return nil, err
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(fields, "email")
	if err != nil {
		return nil, err
	}

	return &models.NoDuesCertificateForm{
		ApplicantName:  applicantName,
		PropertyNumber: propertyNumber,
		WardNumber:     wardNumber,
		Purpose:        purpose,
		Address:        address,
		MobileNumber:   mobile,
		AadhaarNumber:  aadhaar,
		Email:          email,
	}, nil
}

func validateHousingForm(fields map[string]string) (models.FormRecord, error) {
	ownerName, err := requiredField(fields, "ownerName")
	if err != nil {
		return nil, err
	}
	propertyNumber, err := requiredField(fields, "propertyNumber")
	if err != nil {
		return nil, err
	}
	wardNumber, err := requiredField(fields, "wardNumber")
	if err != nil {
		return nil, err
	}
	plotArea, err := requiredDecimal(fields, "plotArea")
	if err != nil {
		return nil, err
	}
	buildingType, err := requiredField(fields, "buildingType")
	if err != nil {
		return nil, err
	}
	constructionYear, err := requiredInt(fields, "constructionYear")
	if err != nil {
		return nil, err
	}
	if constructionYear < 1800 || constructionYear > time.Now().Year() {
		return nil, &ValidationError{Field: "constructionYear", Reason: "must be a valid year"}
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}

	return &models.HousingAssessmentForm{
		OwnerName:        ownerName,
		PropertyNumber:   propertyNumber,
		WardNumber:       wardNumber,
		PlotArea:         plotArea,
		BuildingType:     buildingType,
		ConstructionYear: constructionYear,
		Address:          address,
		MobileNumber:     mobile,
		AadhaarNumber:    aadhaar,
	}, nil
}

func validateNiradharForm(fields map[string]string) (models.FormRecord, error) {
	applicantName, err := requiredField(fields, "applicantName")
	if err != nil {
		return nil, err
	}
	dateOfBirth, err := requiredPastDate(fields, "dateOfBirth")
	if err != nil {
		return nil, err
	}
	gender, err := requiredGender(fields, "gender")
	if err != nil {
		return nil, err
	}
	monthlyIncome, err := requiredDecimal(fields, "monthlyIncome")
	if err != nil {
		return nil, err
	}
	bankAccount, err := requiredField(fields, "bankAccountNumber")
	if err != nil {
		return nil, err
	}
	ifsc, err := requiredField(fields, "ifscCode")
	if err != nil {
		return nil, err
	}
	ifsc = strings.ToUpper(ifsc)
	if !ifscRegex.MatchString(ifsc) {
		return nil, &ValidationError{Field: "ifscCode", Reason: "must be a valid IFSC code"}
	}
	address, err := requiredField(fields, "address")
	if err != nil {
		return nil, err
	}
	mobile, err := requiredMobile(fields, "mobileNumber")
	if err != nil {
		return nil, err
	}
	aadhaar, err := requiredAadhaar(fields, "aadhaarNumber")
	if err != nil {
		return nil, err
	}

	return &models.NiradharSchemeForm{
		ApplicantName:     applicantName,
		DateOfBirth:       datatypes.Date(dateOfBirth),
		Gender:            gender,
		GuardianName:      optionalField(fields, "guardianName"),
		MonthlyIncome:     monthlyIncome,
		BankAccountNumber: bankAccount,
		IFSCCode:          ifsc,
		Address:           address,
		MobileNumber:      mobile,
		AadhaarNumber:     aadhaar,
	}, nil
}

//
// Uploaded-file validation. All checks run before any storage upload, so
// invalid submissions never reach the object store.
//

const (
	MaxReceiptSizeBytes    = 5 << 20  // 5 MiB
	MaxDocumentSizeBytes   = 10 << 20 // 10 MiB
	MaxSupportingDocuments = 5
)

var receiptContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var supportingContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

func fileContentType(fh *multipart.FileHeader) string {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// ValidateReceiptFile enforces the mandatory payment-receipt image:
// JPEG/PNG only, size-capped.
func ValidateReceiptFile(fh *multipart.FileHeader) error {
	if fh == nil {
		return &ValidationError{Field: "paymentReceipt", Reason: "payment receipt image is required"}
	}
	if !receiptContentTypes[fileContentType(fh)] {
		return &ValidationError{Field: "paymentReceipt", Reason: "must be a JPEG or PNG image"}
	}
	if fh.Size > MaxReceiptSizeBytes {
		return &ValidationError{Field: "paymentReceipt", Reason: "must not exceed 5 MB"}
	}
	return nil
}

// ValidateSupportingFiles enforces type, size and count limits on the
// optional supporting documents.
func ValidateSupportingFiles(fhs []*multipart.FileHeader) error {
	if len(fhs) > MaxSupportingDocuments {
		return &ValidationError{Field: "documents", Reason: fmt.Sprintf("at most %d supporting documents are allowed", MaxSupportingDocuments)}
	}
	for _, fh := range fhs {
		if !supportingContentTypes[fileContentType(fh)] {
			return &ValidationError{Field: "documents", Reason: fmt.Sprintf("%s: must be a JPEG, PNG or PDF", fh.Filename)}
		}
		if fh.Size > MaxDocumentSizeBytes {
			return &ValidationError{Field: "documents", Reason: fmt.Sprintf("%s: must not exceed 10 MB", fh.Filename)}
		}
	}
	return nil
}

// ValidateCertificateFile enforces the issued certificate upload: one PDF.
func ValidateCertificateFile(fh *multipart.FileHeader) error {
	if fh == nil {
		return &ValidationError{Field: "certificate", Reason: "certificate file is required"}
	}
	if fileContentType(fh) != "application/pdf" {
		return &ValidationError{Field: "certificate", Reason: "must be a PDF"}
	}
	if fh.Size > MaxDocumentSizeBytes {
		return &ValidationError{Field: "certificate", Reason: "must not exceed 10 MB"}
	}
	return nil
}
