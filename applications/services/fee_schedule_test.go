package services

import (
	"testing"

	"municipal-portal-backend/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationFeeDefaults(t *testing.T) {
	fee, err := ApplicationFee(models.BirthCertificate)
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.NewFromInt(50)))

	fee, err = ApplicationFee(models.HousingAssessment)
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.NewFromInt(200)))
}

func TestApplicationFeeUnknownType(t *testing.T) {
	_, err := ApplicationFee(models.DocumentType("residency_proof"))
	assert.Error(t, err)
}

func TestApplicationFeeEnvOverride(t *testing.T) {
	t.Setenv("FEE_BPL_CERTIFICATE", "45.50")

	fee, err := ApplicationFee(models.BPLCertificate)
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.RequireFromString("45.50")))
}

func TestApplicationFeeBadEnvOverride(t *testing.T) {
	t.Setenv("FEE_DEATH_CERTIFICATE", "not-a-number")

	_, err := ApplicationFee(models.DeathCertificate)
	assert.Error(t, err)
}
