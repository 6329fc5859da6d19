package services

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"municipal-portal-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBirthFields() map[string]string {
	return map[string]string{
		"childFirstName": "Aarav",
		"childLastName":  "Sharma",
		"gender":         "male",
		"dateOfBirth":    "15-08-2023",
		"placeOfBirth":   "Civil Hospital, Pune",
		"fatherName":     "Rohan Sharma",
		"motherName":     "Priya Sharma",
		"fatherAadhaar":  "123412341234",
		"address":        "12 MG Road, Pune",
		"mobileNumber":   "9876543210",
	}
}

func validMarriageFields() map[string]string {
	return map[string]string{
		"groomName":        "Rahul Deshmukh",
		"groomDateOfBirth": "01-01-1995",
		"groomAddress":     "45 FC Road, Pune",
		"groomAadhaar":     "111122223333",
		"brideName":        "Sneha Patil",
		"brideDateOfBirth": "1998-06-10",
		"brideAddress":     "7 JM Road, Pune",
		"brideAadhaar":     "444455556666",
		"marriageDate":     "10-02-2023",
		"marriagePlace":    "Pune",
		"witnessOneName":   "Amit Kulkarni",
		"witnessTwoName":   "Vijay Joshi",
		"mobileNumber":     "9876543210",
	}
}

func minimalValidFields(dt models.DocumentType) map[string]string {
	common := map[string]string{
		"applicantName": "Test Applicant",
		"address":       "12 MG Road",
		"mobileNumber":  "9876543210",
		"aadhaarNumber": "123412341234",
	}
	switch dt {
	case models.BirthCertificate:
		return validBirthFields()
	case models.DeathCertificate:
		common["deceasedName"] = "Late Ramesh Kale"
		common["gender"] = "male"
		common["dateOfDeath"] = "01-01-2023"
		common["placeOfDeath"] = "Pune"
		common["ageAtDeath"] = "74"
		common["relationToDeceased"] = "son"
		return common
	case models.MarriageCertificate:
		return validMarriageFields()
	case models.TaxationCertificate:
		common["ownerName"] = "Test Applicant"
		common["propertyNumber"] = "P-1021"
		common["wardNumber"] = "7"
		common["propertyKind"] = "residential"
		common["assessedValue"] = "1250000.50"
		common["taxYear"] = "2023-24"
		return common
	case models.BPLCertificate:
		common["familyMembers"] = "5"
		common["annualIncome"] = "48000"
		common["occupation"] = "labourer"
		return common
	case models.NoDuesCertificate:
		common["propertyNumber"] = "P-1021"
		common["wardNumber"] = "7"
		common["purpose"] = "property sale"
		return common
	case models.HousingAssessment:
		common["ownerName"] = "Test Applicant"
		common["propertyNumber"] = "P-1021"
		common["wardNumber"] = "7"
		common["plotArea"] = "120.5"
		common["buildingType"] = "RCC"
		common["constructionYear"] = "2010"
		return common
	case models.NiradharScheme:
		common["dateOfBirth"] = "01-01-1950"
		common["gender"] = "female"
		common["monthlyIncome"] = "900"
		common["bankAccountNumber"] = "001234567890"
		common["ifscCode"] = "SBIN0001234"
		return common
	}
	return common
}

func TestValidateSubmissionAllTypesAccept(t *testing.T) {
	for _, dt := range models.AllDocumentTypes {
		t.Run(string(dt), func(t *testing.T) {
			record, err := ValidateSubmission(dt, minimalValidFields(dt))
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.NotEmpty(t, record.TableName())
		})
	}
}

func TestValidateSubmissionFailsFastOnMissingField(t *testing.T) {
	for _, dt := range models.AllDocumentTypes {
		t.Run(string(dt), func(t *testing.T) {
			_, err := ValidateSubmission(dt, map[string]string{})
			require.Error(t, err)
			assert.True(t, IsValidationError(err), err.Error())
		})
	}
}

func TestValidateSubmissionUnknownType(t *testing.T) {
	_, err := ValidateSubmission(models.DocumentType("driving_license"), map[string]string{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestBirthFormNormalizesDualDateFormats(t *testing.T) {
	first := validBirthFields()
	first["dateOfBirth"] = "15-08-2023"
	second := validBirthFields()
	second["dateOfBirth"] = "2023-08-15"

	recordA, err := ValidateSubmission(models.BirthCertificate, first)
	require.NoError(t, err)
	recordB, err := ValidateSubmission(models.BirthCertificate, second)
	require.NoError(t, err)

	formA := recordA.(*models.BirthCertificateForm)
	formB := recordB.(*models.BirthCertificateForm)
	assert.Equal(t, time.Time(formA.DateOfBirth), time.Time(formB.DateOfBirth))
	assert.Equal(t, time.August, time.Time(formA.DateOfBirth).Month())
	assert.Equal(t, 15, time.Time(formA.DateOfBirth).Day())
}

func TestBirthFormFieldFormats(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"short mobile", "mobileNumber", "12345"},
		{"alpha mobile", "mobileNumber", "987654321a"},
		{"short aadhaar", "fatherAadhaar", "1234"},
		{"bad email", "email", "not-an-email"},
		{"future birth date", "dateOfBirth", "15-08-2099"},
		{"garbled date", "dateOfBirth", "2023/08/15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validBirthFields()
			fields[tc.field] = tc.value
			_, err := ValidateSubmission(models.BirthCertificate, fields)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestMarriageMinimumAges(t *testing.T) {
	underageGroom := validMarriageFields()
	underageGroom["groomDateOfBirth"] = "01-01-2005" // 18 at 2023 marriage
	_, err := ValidateSubmission(models.MarriageCertificate, underageGroom)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groom")

	underageBride := validMarriageFields()
	underageBride["brideDateOfBirth"] = "01-01-2008"
	_, err = ValidateSubmission(models.MarriageCertificate, underageBride)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bride")

	// Exactly at the limits is allowed.
	boundary := validMarriageFields()
	boundary["groomDateOfBirth"] = "10-02-2002" // 21 on 10-02-2023
	boundary["brideDateOfBirth"] = "10-02-2005" // 18 on 10-02-2023
	_, err = ValidateSubmission(models.MarriageCertificate, boundary)
	require.NoError(t, err)
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateReceiptFile(t *testing.T) {
	require.NoError(t, ValidateReceiptFile(fileHeader("receipt.jpg", "image/jpeg", 100_000)))
	require.NoError(t, ValidateReceiptFile(fileHeader("receipt.png", "image/png", 100_000)))

	err := ValidateReceiptFile(nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = ValidateReceiptFile(fileHeader("receipt.pdf", "application/pdf", 100_000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JPEG or PNG")

	err = ValidateReceiptFile(fileHeader("receipt.jpg", "image/jpeg", MaxReceiptSizeBytes+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 MB")
}

func TestValidateSupportingFiles(t *testing.T) {
	var many []*multipart.FileHeader
	for i := 0; i < MaxSupportingDocuments+1; i++ {
		many = append(many, fileHeader(fmt.Sprintf("doc%d.pdf", i), "application/pdf", 1000))
	}
	require.Error(t, ValidateSupportingFiles(many))

	require.NoError(t, ValidateSupportingFiles(many[:MaxSupportingDocuments]))

	bad := []*multipart.FileHeader{fileHeader("malware.exe", "application/octet-stream", 10)}
	require.Error(t, ValidateSupportingFiles(bad))
}

func TestValidateCertificateFile(t *testing.T) {
	require.NoError(t, ValidateCertificateFile(fileHeader("certificate.pdf", "application/pdf", 1000)))

	err := ValidateCertificateFile(fileHeader("certificate.jpg", "image/jpeg", 1000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF")
}

func TestApplicationFeeCoversAllTypes(t *testing.T) {
	for _, dt := range models.AllDocumentTypes {
		fee, err := ApplicationFee(dt)
		require.NoError(t, err)
		assert.True(t, fee.IsPositive(), string(dt))
	}
	_, err := ApplicationFee(models.DocumentType("passport"))
	require.Error(t, err)
}
