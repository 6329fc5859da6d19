package config

import (
	"errors"

	"municipal-portal-backend/db/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInitialAdmin creates the first admin account from env so a fresh
// deployment has a reviewer before any user signs up. No-op if the email
// already exists or ADMIN_EMAIL is unset.
func SeedInitialAdmin(db *gorm.DB) error {
	adminEmail := GetEnv("ADMIN_EMAIL")
	adminPassword := GetEnv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		Logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName: GetEnvOrDefault("ADMIN_FULL_NAME", "Portal Administrator"),
		Email:    adminEmail,
		Password: string(hashed),
		Role:     models.AdminRole,
		Active:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	Logger.Info("Seeded initial admin account", zap.String("email", adminEmail))
	return nil
}
