package services

import (
	"fmt"
	"strings"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"

	"github.com/shopspring/decimal"
)

// applicationFees is the fee schedule per certificate category, in INR.
var applicationFees = map[models.DocumentType]decimal.Decimal{
	models.BirthCertificate:    decimal.NewFromInt(50),
	models.DeathCertificate:    decimal.NewFromInt(50),
	models.MarriageCertificate: decimal.NewFromInt(100),
	models.TaxationCertificate: decimal.NewFromInt(150),
	models.BPLCertificate:      decimal.NewFromInt(30),
	models.NoDuesCertificate:   decimal.NewFromInt(100),
	models.HousingAssessment:   decimal.NewFromInt(200),
	models.NiradharScheme:      decimal.NewFromInt(20),
}

// ApplicationFee returns the fee payable for one certificate category.
// An environment variable of the form FEE_BIRTH_CERTIFICATE overrides the
// built-in amount for that category.
func ApplicationFee(docType models.DocumentType) (decimal.Decimal, error) {
	fee, ok := applicationFees[docType]
	if !ok {
		return decimal.Zero, fmt.Errorf("no fee configured for document type: %s", docType)
	}
	envKey := "FEE_" + strings.ToUpper(string(docType))
	if raw := config.GetEnv(envKey); raw != "" {
		override, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid fee override %s=%q: %w", envKey, raw, err)
		}
		return override, nil
	}
	return fee, nil
}
