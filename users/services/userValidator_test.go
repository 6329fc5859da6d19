package services

import (
	"testing"

	"municipal-portal-backend/db/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidateUser(t *testing.T) {
	valid := &models.User{
		FullName: "Asha Deshmukh",
		Email:    "asha@example.com",
		Password: "Secret123",
		Role:     models.ClientRole,
	}
	require.Empty(t, ValidateUser(valid))

	tests := []struct {
		name   string
		mutate func(u *models.User)
		want   string
	}{
		{"missing name", func(u *models.User) { u.FullName = "" }, "Full name is required"},
		{"missing email", func(u *models.User) { u.Email = "" }, "Email is required"},
		{"missing password", func(u *models.User) { u.Password = "" }, "Password is required"},
		{"bad role", func(u *models.User) { u.Role = "superuser" }, "Invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := *valid
			tt.mutate(&u)
			require.Equal(t, tt.want, ValidateUser(&u))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.Empty(t, ValidatePassword("Secret123"))

	require.NotEmpty(t, ValidatePassword("Sh0rt"))
	require.NotEmpty(t, ValidatePassword("nouppercase1"))
	require.NotEmpty(t, ValidatePassword("NOLOWERCASE1"))
	require.NotEmpty(t, ValidatePassword("NoDigitsHere"))
}

func TestValidateEmailFormat(t *testing.T) {
	require.True(t, ValidateEmailFormat("citizen@example.com"))
	require.True(t, ValidateEmailFormat("first.last+tag@sub.example.in"))

	require.False(t, ValidateEmailFormat("not-an-email"))
	require.False(t, ValidateEmailFormat("missing@tld"))
	require.False(t, ValidateEmailFormat("@example.com"))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	require.True(t, CheckPasswordHash("Secret123", string(hash)))
	require.False(t, CheckPasswordHash("WrongPass1", string(hash)))
}
