package routes

import (
	application_repositories "municipal-portal-backend/applications/repositories"
	"municipal-portal-backend/middleware"
	notification_services "municipal-portal-backend/notifications/services"
	controllers "municipal-portal-backend/payments/controllers"
	repositories "municipal-portal-backend/payments/repositories"
	services "municipal-portal-backend/payments/services"

	"github.com/gofiber/fiber/v2"
)

func PaymentRouterInit(
	app *fiber.App,
	appCtx *middleware.AppContext,
	paymentRepository repositories.PaymentRepository,
	applicationRepository application_repositories.ApplicationRepository,
	gateway *services.GatewayClient,
	notificationSvc *notification_services.NotificationService,
) {
	paymentController := &controllers.PaymentController{
		PaymentRepo:     paymentRepository,
		ApplicationRepo: applicationRepository,
		Gateway:         gateway,
		NotificationSvc: notificationSvc,
	}

	paymentRoutes := app.Group("/api/v1/payments", middleware.ProtectedRoute(appCtx))

	paymentRoutes.Post("/order", paymentController.CreateOrderController)
	paymentRoutes.Post("/verify", paymentController.VerifyPaymentController)
}
