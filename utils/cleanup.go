package utils

import (
	"context"
	"time"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/internal/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	staleUnverifiedAfter  = 30 * 24 * time.Hour
	readNotificationsKeep = 90 * 24 * time.Hour
	emailLogsKeep         = 180 * 24 * time.Hour
)

// StartScheduledMaintenance runs the nightly sweep: stale unverified
// objects of rejected applications, old read notifications and aged
// email logs. Returns the scheduler so callers can Stop it on shutdown.
func StartScheduledMaintenance(db *gorm.DB, store storage.ObjectStorage) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 2 * * *", func() {
		sweepRejectedUnverifiedFiles(db, store)
		sweepOldNotifications(db)
		sweepOldEmailLogs(db)
	})
	if err != nil {
		config.Logger.Error("Failed to schedule maintenance job", zap.Error(err))
		return c
	}

	c.Start()
	config.Logger.Info("Scheduled nightly maintenance sweep")
	return c
}

// sweepRejectedUnverifiedFiles removes unverified uploads whose
// application was rejected long enough ago that nobody will review them.
func sweepRejectedUnverifiedFiles(db *gorm.DB, store storage.ObjectStorage) {
	cutoff := time.Now().Add(-staleUnverifiedAfter)

	var files []models.UploadedFile
	err := db.
		Joins("JOIN applications ON applications.id = uploaded_files.application_id").
		Where("applications.status = ?", models.RejectedApplication).
		Where("uploaded_files.folder = ?", string(storage.FolderUnverified)).
		Where("uploaded_files.uploaded_at < ?", cutoff).
		Find(&files).Error
	if err != nil {
		config.Logger.Error("Maintenance: failed to list stale unverified files", zap.Error(err))
		return
	}

	removed := 0
	for _, file := range files {
		if err := store.Delete(context.Background(), file.FileKey); err != nil {
			config.Logger.Warn("Maintenance: failed to delete stale object",
				zap.String("file_key", file.FileKey),
				zap.Error(err),
			)
			continue
		}
		if err := db.Delete(&models.UploadedFile{}, "id = ?", file.ID).Error; err != nil {
			config.Logger.Warn("Maintenance: failed to delete file descriptor",
				zap.String("file_id", file.ID.String()),
				zap.Error(err),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		config.Logger.Info("Maintenance: removed stale unverified files", zap.Int("count", removed))
	}
}

func sweepOldNotifications(db *gorm.DB) {
	cutoff := time.Now().Add(-readNotificationsKeep)
	result := db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	if result.Error != nil {
		config.Logger.Error("Maintenance: failed to purge notifications", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		config.Logger.Info("Maintenance: purged read notifications", zap.Int64("count", result.RowsAffected))
	}
}

func sweepOldEmailLogs(db *gorm.DB) {
	cutoff := time.Now().Add(-emailLogsKeep)
	result := db.Where("created_at < ?", cutoff).Delete(&models.EmailLog{})
	if result.Error != nil {
		config.Logger.Error("Maintenance: failed to prune email logs", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		config.Logger.Info("Maintenance: pruned email logs", zap.Int64("count", result.RowsAffected))
	}
}
