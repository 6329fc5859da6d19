package routes

import (
	"municipal-portal-backend/middleware"
	controllers "municipal-portal-backend/notifications/controllers"
	repositories "municipal-portal-backend/notifications/repositories"

	"github.com/gofiber/fiber/v2"
)

func NotificationRouterInit(
	app *fiber.App,
	appCtx *middleware.AppContext,
	notificationRepository repositories.NotificationRepository,
) {
	notificationController := &controllers.NotificationController{
		NotificationRepo: notificationRepository,
	}

	notificationRoutes := app.Group("/api/v1/notifications", middleware.ProtectedRoute(appCtx))

	notificationRoutes.Get("/", notificationController.GetUserNotificationsController)
	notificationRoutes.Get("/unread-count", notificationController.GetUnreadCountController)
	notificationRoutes.Patch("/read-all", notificationController.MarkAllNotificationsReadController)
	notificationRoutes.Patch("/:id/read", notificationController.MarkNotificationReadController)
}
