package routes

import (
	controllers "municipal-portal-backend/applications/controllers"
	repositories "municipal-portal-backend/applications/repositories"
	indexing_repository "municipal-portal-backend/bleve/repositories"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/middleware"
	notification_services "municipal-portal-backend/notifications/services"
	websocket "municipal-portal-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ApplicationRouterInit(
	app *fiber.App,
	db *gorm.DB,
	appCtx *middleware.AppContext,
	applicationRepository repositories.ApplicationRepository,
	bleveRepository indexing_repository.BleveRepositoryInterface,
	notificationSvc *notification_services.NotificationService,
	store storage.ObjectStorage,
	signer *storage.URLSigner,
	wsHub *websocket.Hub,
) {
	applicationController := &controllers.ApplicationController{
		ApplicationRepo: applicationRepository,
		DB:              db,
		Storage:         store,
		Signer:          signer,
		NotificationSvc: notificationSvc,
		BleveRepo:       bleveRepository,
		WsHub:           wsHub,
	}

	public := app.Group("/api/v1")

	// Signed URLs land here; the signature is the only credential.
	public.Get("/files/serve", applicationController.FileServeController)

	protected := app.Group("/api/v1", middleware.ProtectedRoute(appCtx))

	// Citizen workflow
	protected.Post("/applications", applicationController.SubmitApplicationController)
	protected.Get("/users/:userId/applications", applicationController.GetUserApplicationsController)
	protected.Get("/applications/:id", applicationController.GetApplicationByIdController)
	protected.Get("/applications/:id/files/:selector/url", applicationController.ResolveFileURLController)

	// Admin review workflow
	admin := app.Group("/api/v1", middleware.ProtectedRoute(appCtx), middleware.AdminOnly())
	admin.Get("/filtered-applications", applicationController.GetFilteredApplicationsController)
	admin.Get("/applications-export", applicationController.ExportApplicationsController)
	admin.Post("/applications/:id/review", applicationController.ReviewApplicationController)
	admin.Post("/applications/:id/certificate", applicationController.IssueCertificateController)
}
