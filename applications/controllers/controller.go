package controllers

import (
	"time"

	"municipal-portal-backend/applications/repositories"
	indexing_repository "municipal-portal-backend/bleve/repositories"
	"municipal-portal-backend/internal/storage"
	notification_services "municipal-portal-backend/notifications/services"
	websocket "municipal-portal-backend/websocket"

	"gorm.io/gorm"
)

// signedURLTTL bounds how long a resolved file URL stays valid.
const signedURLTTL = 15 * time.Minute

type ApplicationController struct {
	ApplicationRepo repositories.ApplicationRepository
	DB              *gorm.DB
	Storage         storage.ObjectStorage
	Signer          *storage.URLSigner
	NotificationSvc *notification_services.NotificationService
	BleveRepo       indexing_repository.BleveRepositoryInterface
	WsHub           *websocket.Hub
}
