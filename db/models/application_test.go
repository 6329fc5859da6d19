package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{"pending can be approved", PendingApplication, ApprovedApplication, true},
		{"pending can be rejected", PendingApplication, RejectedApplication, true},
		{"pending cannot jump to certificate", PendingApplication, CertificateGeneratedApplication, false},
		{"approved can issue certificate", ApprovedApplication, CertificateGeneratedApplication, true},
		{"approved cannot be re-approved", ApprovedApplication, ApprovedApplication, false},
		{"approved cannot be rejected after approval", ApprovedApplication, RejectedApplication, false},
		{"rejected is terminal", RejectedApplication, ApprovedApplication, false},
		{"rejected cannot return to pending", RejectedApplication, PendingApplication, false},
		{"certificate_generated is terminal", CertificateGeneratedApplication, CompletedApplication, false},
		{"nothing reaches completed", ApprovedApplication, CompletedApplication, false},
		{"completed has no outgoing transitions", CompletedApplication, PendingApplication, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, PendingApplication.IsTerminal())
	assert.False(t, ApprovedApplication.IsTerminal())
	assert.True(t, RejectedApplication.IsTerminal())
	assert.True(t, CertificateGeneratedApplication.IsTerminal())
	assert.True(t, CompletedApplication.IsTerminal())
}

func TestDocumentTypeValidity(t *testing.T) {
	for _, dt := range AllDocumentTypes {
		assert.True(t, dt.IsValid(), string(dt))
		assert.NotEmpty(t, CodePrefixes[dt])
	}
	assert.False(t, DocumentType("driving_license").IsValid())
}

func TestDocumentTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Birth Certificate", BirthCertificate.DisplayName())
	assert.Equal(t, "Bpl Certificate", BPLCertificate.DisplayName())
	assert.Equal(t, "No Dues Certificate", NoDuesCertificate.DisplayName())
}

func TestReceiptFileLookup(t *testing.T) {
	app := Application{
		UploadedFiles: []UploadedFile{
			{OriginalName: "aadhaar.png"},
			{OriginalName: "receipt.jpg", IsPaymentReceipt: true},
		},
	}

	receipt := app.ReceiptFile()
	require.NotNil(t, receipt)
	assert.Equal(t, "receipt.jpg", receipt.OriginalName)

	empty := Application{}
	assert.Nil(t, empty.ReceiptFile())
}
